package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/hazyhaar/labelscan/pkg/prefs"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func staticRecognizer(lines ...string) Recognizer {
	return RecognizerFunc(func(ctx context.Context, img image.Image) ([]string, error) {
		if img == nil {
			return nil, errors.New("nil image")
		}
		return lines, nil
	})
}

func newTestScanner(t *testing.T, p prefs.Preferences, rec Recognizer) *Scanner {
	t.Helper()
	return New(Config{
		Prefs:      prefs.NewMemoryStore(p),
		Recognizer: rec,
		Timeout:    time.Second,
	})
}

func TestScanLines_UsesStoredPreferences(t *testing.T) {
	s := newTestScanner(t, prefs.Preferences{
		SelectedIDs: []string{"milk", "soy"},
		CustomTerms: []string{"Carmine"},
	}, nil)

	res, err := s.ScanLines(context.Background(), []string{
		"INGREDIENTS: Sugar, Soy Lecithin,",
		"Whey (MILK), colour: carmine.",
		"Contains foil-wrapped nuts",
	}, nil)
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	if !res.Flagged {
		t.Error("Flagged = false, want true")
	}
	var keys []string
	for _, m := range res.Matches {
		keys = append(keys, m.Key+"="+m.Term)
	}
	want := []string{"custom:carmine=carmine", "milk=milk", "milk=whey", "soy=lecithin", "soy=soy"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("matches = %v, want %v", keys, want)
	}
	if len(res.Lines) != 3 {
		t.Errorf("Lines = %d, want 3", len(res.Lines))
	}
}

func TestScanLines_SelectionOverride(t *testing.T) {
	s := newTestScanner(t, prefs.Preferences{SelectedIDs: []string{"milk"}}, nil)
	res, err := s.ScanLines(context.Background(), []string{"milk and sesame"}, &Selection{
		CategoryIDs: []string{"sesame", "not-a-category"},
	})
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Key != "sesame" {
		t.Errorf("matches = %v, want sesame only", res.Matches)
	}
}

func TestScanLines_NothingSelected(t *testing.T) {
	s := newTestScanner(t, prefs.Preferences{}, nil)
	res, err := s.ScanLines(context.Background(), []string{"milk"}, nil)
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	if res.Flagged || len(res.Matches) != 0 {
		t.Errorf("result = %+v, want no matches", res)
	}

	res, _ = s.ScanLines(context.Background(), nil, &Selection{CategoryIDs: []string{"milk"}})
	if res.Lines == nil || res.Matches == nil {
		t.Error("empty result should carry non-nil slices")
	}
}

func TestScanImage(t *testing.T) {
	s := newTestScanner(t, prefs.Preferences{SelectedIDs: []string{"tree_nut"}},
		staticRecognizer("May contain Brazil nuts", "and pine-nut oil"))

	res, err := s.ScanImage(context.Background(), ReaderSource{R: bytes.NewReader(pngBytes(t))}, nil)
	if err != nil {
		t.Fatalf("ScanImage: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("matches = %v, want brazil nut + pine nut", res.Matches)
	}
	if res.Matches[0].Term != "brazil nut" || res.Matches[1].Term != "pine nut" {
		t.Errorf("matches = %v", res.Matches)
	}
}

func TestScanImage_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.png")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newTestScanner(t, prefs.Preferences{SelectedIDs: []string{"egg"}}, staticRecognizer("EGG YOLK"))
	res, err := s.ScanImage(context.Background(), FileSource{Path: path}, nil)
	if err != nil {
		t.Fatalf("ScanImage: %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Line != "EGG YOLK" {
		t.Errorf("matches = %v", res.Matches)
	}
}

func TestScanImage_Errors(t *testing.T) {
	ctx := context.Background()

	s := newTestScanner(t, prefs.Preferences{}, nil)
	if _, err := s.ScanImage(ctx, ReaderSource{R: bytes.NewReader(pngBytes(t))}, nil); !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("err = %v, want ErrNoRecognizer", err)
	}
	if s.CanRecognize() {
		t.Error("CanRecognize = true without recognizer")
	}

	s = newTestScanner(t, prefs.Preferences{}, staticRecognizer("x"))
	if _, err := s.ScanImage(ctx, ReaderSource{R: strings.NewReader("not an image")}, nil); !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
	if _, err := s.ScanImage(ctx, FileSource{Path: filepath.Join(t.TempDir(), "missing.png")}, nil); err == nil {
		t.Error("expected error for missing file")
	}

	failing := RecognizerFunc(func(context.Context, image.Image) ([]string, error) {
		return nil, errors.New("engine crashed")
	})
	s = newTestScanner(t, prefs.Preferences{}, failing)
	_, err := s.ScanImage(ctx, ReaderSource{R: bytes.NewReader(pngBytes(t))}, nil)
	if err == nil || !strings.Contains(err.Error(), "engine crashed") {
		t.Errorf("err = %v, want recognizer error", err)
	}
}

func TestScanImage_Timeout(t *testing.T) {
	slow := RecognizerFunc(func(ctx context.Context, _ image.Image) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := New(Config{Recognizer: slow, Timeout: 20 * time.Millisecond})
	_, err := s.ScanImage(context.Background(), ReaderSource{R: bytes.NewReader(pngBytes(t))}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestCommandRecognizer_NoCommand(t *testing.T) {
	r := &CommandRecognizer{}
	if _, err := r.Recognize(context.Background(), testImage()); !errors.Is(err, ErrNoRecognizer) {
		t.Errorf("err = %v, want ErrNoRecognizer", err)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("Ingredients:\r\n\n  \nmilk, soy\n\f\n")
	want := []string{"Ingredients:", "milk, soy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
}

func TestReadLines(t *testing.T) {
	got, err := ReadLines(strings.NewReader("Whey\r\n\nSoja\n"), "")
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Whey", "Soja"}) {
		t.Errorf("ReadLines = %q", got)
	}
}

func TestReadLines_Windows1252(t *testing.T) {
	// "Crème" in windows-1252: è = 0xE8.
	got, err := ReadLines(bytes.NewReader([]byte("Cr\xe8me\n")), "windows-1252")
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(got) != 1 || got[0] != "Crème" {
		t.Errorf("ReadLines = %q, want [Crème]", got)
	}
}

func TestReadLines_UnknownEncoding(t *testing.T) {
	if _, err := ReadLines(strings.NewReader("x"), "klingon-8"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

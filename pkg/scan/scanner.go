// Package scan runs a label through capture, text recognition and matching.
//
// Capture and recognition are ordinary context-aware calls that may block or
// fail. Matching happens afterwards on a snapshot of the catalog and the
// user's preferences and never fails.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/match"
	"github.com/hazyhaar/labelscan/pkg/prefs"
)

var (
	ErrNoRecognizer = errors.New("no text recognizer configured")
	ErrDecode       = errors.New("decode image")
)

// DefaultTimeout bounds one scan when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Selection overrides the stored preferences for a single scan.
type Selection struct {
	CategoryIDs []string `json:"categories"`
	CustomTerms []string `json:"custom_terms"`
}

// Result is what a scan hands to presentation: the matches and, for
// transparency, every recognized line.
type Result struct {
	Lines   []string      `json:"lines"`
	Matches []match.Match `json:"matches"`
	Flagged bool          `json:"flagged"`
}

// Config wires a Scanner.
type Config struct {
	Catalog    *catalog.Registry
	Prefs      prefs.Store
	Recognizer Recognizer // nil disables ScanImage
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Scanner matches recognized label text against the user's selection.
type Scanner struct {
	catalog    *catalog.Registry
	prefs      prefs.Store
	recognizer Recognizer
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a Scanner. A nil Catalog means the built-in catalog and a nil
// Prefs store starts with nothing selected.
func New(cfg Config) *Scanner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.NewRegistry("")
	}
	if cfg.Prefs == nil {
		cfg.Prefs = prefs.NewMemoryStore(prefs.Preferences{})
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Scanner{
		catalog:    cfg.Catalog,
		prefs:      cfg.Prefs,
		recognizer: cfg.Recognizer,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// CanRecognize reports whether ScanImage is available.
func (s *Scanner) CanRecognize() bool {
	return s.recognizer != nil
}

// Catalog returns the catalog currently in use.
func (s *Scanner) Catalog() *catalog.Catalog {
	return s.catalog.Current()
}

// Preferences returns the preference store.
func (s *Scanner) Preferences() prefs.Store {
	return s.prefs
}

// Matcher compiles the terms for sel, or for the stored preferences when sel
// is nil.
func (s *Scanner) Matcher(ctx context.Context, sel *Selection) (*match.Matcher, error) {
	if sel == nil {
		p, err := s.prefs.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		sel = &Selection{CategoryIDs: p.SelectedIDs, CustomTerms: p.CustomTerms}
	}
	cat := s.catalog.Current()
	return match.NewMatcher(cat.Select(sel.CategoryIDs), sel.CustomTerms), nil
}

// ScanLines matches already-recognized lines.
func (s *Scanner) ScanLines(ctx context.Context, lines []string, sel *Selection) (*Result, error) {
	m, err := s.Matcher(ctx, sel)
	if err != nil {
		return nil, err
	}
	return s.result(lines, m), nil
}

// ScanImage captures an image from src, recognizes its text and matches it.
// The whole run is bounded by the scanner's timeout.
func (s *Scanner) ScanImage(ctx context.Context, src ImageSource, sel *Selection) (*Result, error) {
	if s.recognizer == nil {
		return nil, ErrNoRecognizer
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	img, err := src.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	lines, err := s.recognizer.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}
	s.logger.Debug("text recognized", "lines", len(lines), "elapsed", time.Since(start))

	m, err := s.Matcher(ctx, sel)
	if err != nil {
		return nil, err
	}
	return s.result(lines, m), nil
}

func (s *Scanner) result(lines []string, m *match.Matcher) *Result {
	if lines == nil {
		lines = []string{}
	}
	matches := m.FindMatches(lines)
	if m.Empty() {
		s.logger.Debug("scan with no terms selected", "lines", len(lines))
	}
	return &Result{
		Lines:   lines,
		Matches: matches,
		Flagged: len(matches) > 0,
	}
}

package scan

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"
)

// Recognizer turns an image into text lines, in reading order.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]string, error)
}

// RecognizerFunc adapts a function to Recognizer.
type RecognizerFunc func(ctx context.Context, img image.Image) ([]string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	return f(ctx, img)
}

// CommandRecognizer runs an external OCR program. The image is written to
// its stdin as PNG and every non-blank stdout line becomes a text line.
// With tesseract: Command "tesseract", Args ["stdin", "stdout"].
type CommandRecognizer struct {
	Command string
	Args    []string
}

func (r *CommandRecognizer) Recognize(ctx context.Context, img image.Image) ([]string, error) {
	if r.Command == "" {
		return nil, ErrNoRecognizer
	}

	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", r.Command, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", r.Command, err)
	}

	return SplitLines(out.String()), nil
}

// SplitLines splits recognizer output into lines, trimming trailing
// carriage returns and dropping blank lines.
func SplitLines(s string) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

package scan

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// maxLineBytes bounds a single recognized line.
const maxLineBytes = 1 << 20

// ReadLines reads already-recognized text, one line per text line, e.g. a
// sidecar file written by an OCR tool. A non-UTF-8 encoding name (as known to
// the WHATWG encoding index, like "windows-1252") is transcoded first.
// Blank lines are dropped.
func ReadLines(r io.Reader, encoding string) ([]string, error) {
	if encoding != "" && !isUTF8(encoding) {
		e, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", encoding, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}

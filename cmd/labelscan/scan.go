package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/labelscan/pkg/report"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

func cmdScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	textFile := fs.String("text", "", "read already-recognized text from this file (- for stdin) instead of an image")
	encoding := fs.String("encoding", "", "character encoding of --text (e.g. windows-1252)")
	categories := fs.String("categories", "", "comma-separated category IDs (default: saved preferences)")
	custom := fs.String("custom", "", "comma-separated custom terms (default: saved preferences)")
	showText := fs.Bool("show-text", false, "print the full recognized text")
	noColor := fs.Bool("no-color", false, "disable coloured output")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	fs.Parse(args)

	if *textFile == "" && fs.NArg() != 1 {
		fatal("usage: labelscan scan [flags] <image> | labelscan scan --text <file>")
	}

	cfg, logger := setup(*cfgPath)
	scanner, _, closeStore, err := openScanner(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer closeStore()

	var sel *scan.Selection
	if *categories != "" || *custom != "" {
		sel = &scan.Selection{CategoryIDs: splitList(*categories), CustomTerms: splitList(*custom)}
	}

	ctx := context.Background()
	var res *scan.Result
	if *textFile != "" {
		var r io.Reader = os.Stdin
		if *textFile != "-" {
			f, err := os.Open(*textFile)
			if err != nil {
				fatal("%v", err)
			}
			defer f.Close()
			r = f
		}
		lines, err := scan.ReadLines(r, *encoding)
		if err != nil {
			fatal("read text: %v", err)
		}
		res, err = scanner.ScanLines(ctx, lines, sel)
		if err != nil {
			fatal("%v", err)
		}
	} else {
		res, err = scanner.ScanImage(ctx, scan.FileSource{Path: fs.Arg(0)}, sel)
		if err != nil {
			fatal("scan %s: %v", fs.Arg(0), err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(res)
	} else if err := report.Render(os.Stdout, scanner.Catalog(), res, report.Options{NoColor: *noColor, ShowText: *showText}); err != nil {
		fatal("%v", err)
	}
	if res.Flagged {
		closeStore()
		os.Exit(2)
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

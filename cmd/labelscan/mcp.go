package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/labelscan/pkg/api"
	"github.com/hazyhaar/labelscan/pkg/mcpquic"
)

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// stdout carries the protocol; logs go to stderr only.
	cfg, logger := setup(*cfgPath)
	scanner, _, closeStore, err := openScanner(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := server.ServeStdio(api.NewMCPServer(scanner, logger, version)); err != nil {
		logger.Error("mcp stdio", "error", err)
	}
}

func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	addr := fs.String("addr", "localhost:8422", "MCP-over-QUIC server address")
	textFile := fs.String("text", "", "file with label text (- for stdin)")
	categories := fs.String("categories", "", "comma-separated category IDs (default: server preferences)")
	custom := fs.String("custom", "", "comma-separated custom terms")
	tool := fs.String("tool", "scan_text", "tool to call (scan_text, list_allergens, get_preferences)")
	insecure := fs.Bool("insecure", true, "skip server certificate verification")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	fs.Parse(args)

	toolArgs := map[string]any{}
	if *tool == "scan_text" {
		text, err := readText(*textFile, fs.Args())
		if err != nil {
			fatal("%v", err)
		}
		toolArgs["lines"] = text
		if *categories != "" {
			toolArgs["categories"] = *categories
		}
		if *custom != "" {
			toolArgs["custom_terms"] = *custom
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := mcpquic.Dial(ctx, *addr, mcpquic.ClientTLS(*insecure), version)
	if err != nil {
		fatal("%v", err)
	}
	defer c.Close()

	out, err := c.CallTool(ctx, *tool, toolArgs)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Println(out)
}

// readText returns the label text from file, or from the remaining
// command-line words when no file is given.
func readText(file string, words []string) (string, error) {
	switch file {
	case "":
		if len(words) == 0 {
			return "", fmt.Errorf("query: give label text as arguments or with --text")
		}
		return strings.Join(words, " "), nil
	case "-":
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	default:
		data, err := os.ReadFile(file)
		return string(data), err
	}
}

package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "scan":
		cmdScan(os.Args[2:])
	case "prefs":
		cmdPrefs(os.Args[2:])
	case "catalog":
		cmdCatalog(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "query":
		cmdQuery(os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: labelscan <command> [flags]

Commands:
  serve     Start the HTTP API (and MCP over QUIC when mcp_addr is set)
  scan      Scan a label image or a text file for selected allergens
  prefs     Show or edit the allergen selection and custom terms
  catalog   List the allergen catalog or export it as YAML
  mcp       Serve the MCP tools on stdin/stdout
  query     Call scan_text on a remote MCP-over-QUIC server
  version   Print the version

Run "labelscan <command> -h" for command flags.
`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "labelscan: "+format+"\n", args...)
	os.Exit(1)
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hazyhaar/labelscan/pkg/catalog"
)

func cmdCatalog(args []string) {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	export := fs.String("export", "", "write the catalog as a YAML manifest to this path")
	full := fs.Bool("full", false, "list every term instead of a preview")
	fs.Parse(args)

	cfg, _ := setup(*cfgPath)
	reg := catalog.NewRegistry(cfg.CatalogFile)
	if err := reg.Load(); err != nil {
		fatal("load catalog: %v", err)
	}
	cat := reg.Current()

	if *export != "" {
		if err := catalog.WriteFile(cat, *export); err != nil {
			fatal("export: %v", err)
		}
		fmt.Printf("wrote %d categories to %s\n", cat.Len(), *export)
		return
	}

	fmt.Printf("%s (version %s): %d categories, %d terms\n\n", cat.ID, cat.Version, cat.Len(), cat.TermCount())
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, d := range cat.All() {
		terms := catalog.Preview(d)
		if *full {
			terms = strings.Join(d.Terms, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.ID, d.DisplayName, terms)
	}
	w.Flush()
}

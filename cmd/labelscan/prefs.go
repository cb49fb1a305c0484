package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/prefs"
)

func prefsUsage() {
	fmt.Fprintf(os.Stderr, `Usage: labelscan prefs [flags] <action> [args]

Actions:
  list                 Show every category and whether it is selected
  select <id>...       Flag categories
  unselect <id>...     Stop flagging categories
  add <term>           Add a custom term
  remove <term>        Remove a custom term
  clear                Unselect everything and drop custom terms
`)
}

func cmdPrefs(args []string) {
	fs := flag.NewFlagSet("prefs", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Usage = prefsUsage
	fs.Parse(args)

	action := "list"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}
	rest := fs.Args()
	if len(rest) > 0 {
		rest = rest[1:]
	}

	cfg, logger := setup(*cfgPath)
	reg := catalog.NewRegistry(cfg.CatalogFile)
	if err := reg.Load(); err != nil {
		fatal("load catalog: %v", err)
	}
	cat := reg.Current()

	store, closeStore, err := openPrefs(cfg.PrefsDB)
	if err != nil {
		fatal("%v", err)
	}
	defer closeStore()
	if cfg.PrefsDB == "" {
		logger.Warn("prefs_db is empty, changes are not persisted")
	}

	ctx := context.Background()
	if action == "list" {
		p, err := store.Load(ctx)
		if err != nil {
			fatal("load preferences: %v", err)
		}
		printPrefs(cat, p)
		return
	}

	edit, err := prefsEdit(cat, action, rest)
	if err != nil {
		if errors.Is(err, errUnknownAction) {
			prefsUsage()
			os.Exit(1)
		}
		fatal("%v", err)
	}
	p, err := store.Update(ctx, edit)
	if err != nil {
		fatal("%s: %v", action, err)
	}
	logger.Debug("preferences saved", "selected", len(p.SelectedIDs), "custom", len(p.CustomTerms))
	printPrefs(cat, p)
}

var errUnknownAction = errors.New("unknown action")

// prefsEdit validates the arguments of a prefs action and returns the edit
// to apply to the stored preferences.
func prefsEdit(cat *catalog.Catalog, action string, args []string) (func(*prefs.Preferences) error, error) {
	switch action {
	case "select", "unselect":
		if len(args) == 0 {
			return nil, fmt.Errorf("%s: need at least one category id", action)
		}
		for _, id := range args {
			if _, ok := cat.Lookup(id); !ok {
				return nil, fmt.Errorf("unknown category %q", id)
			}
		}
		return func(p *prefs.Preferences) error {
			for _, id := range args {
				p.Select(id, action == "select")
			}
			return nil
		}, nil
	case "add":
		if len(args) != 1 {
			return nil, fmt.Errorf("add: need exactly one term")
		}
		return func(p *prefs.Preferences) error {
			if !p.AddCustomTerm(args[0]) {
				return fmt.Errorf("%q is blank or already present", args[0])
			}
			return nil
		}, nil
	case "remove":
		if len(args) != 1 {
			return nil, fmt.Errorf("remove: need exactly one term")
		}
		return func(p *prefs.Preferences) error {
			if !p.RemoveCustomTerm(args[0]) {
				return fmt.Errorf("%q not found", args[0])
			}
			return nil
		}, nil
	case "clear":
		return func(p *prefs.Preferences) error {
			*p = prefs.Preferences{}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownAction, action)
}

func printPrefs(cat *catalog.Catalog, p prefs.Preferences) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, d := range cat.All() {
		mark := " "
		if p.IsSelected(d.ID) {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s]\t%s\t%s\t%s\n", mark, d.ID, d.DisplayName, catalog.Preview(d))
	}
	w.Flush()

	if len(p.CustomTerms) == 0 {
		fmt.Println("\nNo custom terms.")
		return
	}
	fmt.Println("\nCustom terms:")
	for _, t := range p.CustomTerms {
		fmt.Printf("  %s\n", t)
	}
}

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hazyhaar/labelscan/pkg/catalog"
	"github.com/hazyhaar/labelscan/pkg/kit"
	"github.com/hazyhaar/labelscan/pkg/prefs"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

// Shared request/response types used by both HTTP and MCP transports.

// maxLines caps the lines accepted by one text scan.
const maxLines = 2000

var (
	errInvalid   = errors.New("invalid request")
	errDuplicate = errors.New("custom term already present")
)

type scanReq struct {
	Lines     []string
	Selection *scan.Selection
}

type scanImageReq struct {
	Image     io.Reader
	Selection *scan.Selection
}

type customTermReq struct {
	Term string
}

type categoryInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Terms       []string `json:"terms"`
	Preview     string   `json:"preview"`
}

type catalogResponse struct {
	ID         string         `json:"id"`
	Version    string         `json:"version"`
	Categories []categoryInfo `json:"categories"`
}

type endpoints struct {
	scan      kit.Endpoint
	scanImage kit.Endpoint
	catalog   kit.Endpoint
	getPrefs  kit.Endpoint
	putPrefs  kit.Endpoint
	addCustom kit.Endpoint
}

// newEndpoints builds every endpoint once, wrapped with request IDs and
// logging.
func newEndpoints(s *scan.Scanner, logger *slog.Logger) *endpoints {
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.RequestID(), kit.Logging(logger, name))(ep)
	}
	return &endpoints{
		scan:      wrap("scan", scanEndpoint(s)),
		scanImage: wrap("scan_image", scanImageEndpoint(s)),
		catalog:   wrap("catalog", catalogEndpoint(s)),
		getPrefs:  wrap("get_preferences", getPrefsEndpoint(s.Preferences())),
		putPrefs:  wrap("put_preferences", putPrefsEndpoint(s.Preferences())),
		addCustom: wrap("add_custom_term", addCustomEndpoint(s.Preferences())),
	}
}

func scanEndpoint(s *scan.Scanner) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*scanReq)
		if len(req.Lines) > maxLines {
			return nil, fmt.Errorf("%w: too many lines (max %d, got %d)", errInvalid, maxLines, len(req.Lines))
		}
		return s.ScanLines(ctx, req.Lines, req.Selection)
	}
}

func scanImageEndpoint(s *scan.Scanner) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*scanImageReq)
		return s.ScanImage(ctx, scan.ReaderSource{R: req.Image}, req.Selection)
	}
}

func catalogEndpoint(s *scan.Scanner) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		cat := s.Catalog()
		resp := catalogResponse{
			ID:         cat.ID,
			Version:    cat.Version,
			Categories: make([]categoryInfo, 0, cat.Len()),
		}
		for _, d := range cat.All() {
			resp.Categories = append(resp.Categories, categoryInfo{
				ID:          d.ID,
				DisplayName: d.DisplayName,
				Terms:       d.Terms,
				Preview:     catalog.Preview(d),
			})
		}
		return resp, nil
	}
}

func getPrefsEndpoint(store prefs.Store) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return store.Load(ctx)
	}
}

func putPrefsEndpoint(store prefs.Store) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		next := request.(*prefs.Preferences)
		return store.Update(ctx, func(p *prefs.Preferences) error {
			*p = *next
			return nil
		})
	}
}

func addCustomEndpoint(store prefs.Store) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*customTermReq)
		if strings.TrimSpace(req.Term) == "" {
			return nil, fmt.Errorf("%w: empty term", errInvalid)
		}
		return store.Update(ctx, func(p *prefs.Preferences) error {
			if !p.AddCustomTerm(req.Term) {
				return fmt.Errorf("%w: %q", errDuplicate, req.Term)
			}
			return nil
		})
	}
}

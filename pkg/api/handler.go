package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hazyhaar/labelscan/pkg/kit"
	"github.com/hazyhaar/labelscan/pkg/prefs"
	"github.com/hazyhaar/labelscan/pkg/scan"
)

const (
	maxJSONBody  = 1 << 20  // 1 MiB
	maxImageBody = 16 << 20 // 16 MiB
)

// NewRouter returns an http.Handler with all labelscan API routes.
func NewRouter(s *scan.Scanner, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	h := &handler{
		ep:      newEndpoints(s, logger),
		scanner: s,
	}

	mux.HandleFunc("POST /v1/scan", h.handleScan)
	mux.HandleFunc("POST /v1/scan/image", h.handleScanImage)
	mux.HandleFunc("GET /v1/catalog", h.handleCatalog)
	mux.HandleFunc("GET /v1/preferences", h.handleGetPrefs)
	mux.HandleFunc("PUT /v1/preferences", h.handlePutPrefs)
	mux.HandleFunc("POST /v1/preferences/custom", h.handleAddCustom)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(requestID(mux))
}

type handler struct {
	ep      *endpoints
	scanner *scan.Scanner
}

// --- scan recognized text ---

type httpScanRequest struct {
	Lines       []string `json:"lines"`
	Categories  []string `json:"categories,omitempty"`
	CustomTerms []string `json:"custom_terms,omitempty"`
}

func (h *handler) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var req httpScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.ep.scan(r.Context(), &scanReq{
		Lines:     req.Lines,
		Selection: selection(req.Categories, req.CustomTerms),
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- scan an uploaded image ---

func (h *handler) handleScanImage(w http.ResponseWriter, r *http.Request) {
	if !h.scanner.CanRecognize() {
		writeError(w, http.StatusNotImplemented, scan.ErrNoRecognizer.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBody)

	q := r.URL.Query()
	resp, err := h.ep.scanImage(r.Context(), &scanImageReq{
		Image:     r.Body,
		Selection: selection(splitParam(q.Get("categories")), splitParam(q.Get("custom_terms"))),
	})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- catalog ---

func (h *handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.catalog(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- preferences ---

func (h *handler) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ep.getPrefs(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var p prefs.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	resp, err := h.ep.putPrefs(r.Context(), &p)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type httpCustomTermRequest struct {
	Term string `json:"term"`
}

func (h *handler) handleAddCustom(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var req httpCustomTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	resp, err := h.ep.addCustom(r.Context(), &customTermReq{Term: req.Term})
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// --- health ---

type healthResponse struct {
	Status     string `json:"status"`
	Catalog    string `json:"catalog"`
	Categories int    `json:"categories"`
	Terms      int    `json:"terms"`
	Recognizer bool   `json:"recognizer"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	cat := h.scanner.Catalog()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Catalog:    cat.ID,
		Categories: cat.Len(),
		Terms:      cat.TermCount(),
		Recognizer: h.scanner.CanRecognize(),
	})
}

// --- helpers ---

// selection returns nil (use stored preferences) when the caller supplied
// neither categories nor custom terms.
func selection(categories, customTerms []string) *scan.Selection {
	if categories == nil && customTerms == nil {
		return nil
	}
	return &scan.Selection{CategoryIDs: categories, CustomTerms: customTerms}
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errInvalid), errors.Is(err, scan.ErrDecode):
		return http.StatusBadRequest
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errDuplicate):
		return http.StatusConflict
	case errors.Is(err, scan.ErrNoRecognizer):
		return http.StatusNotImplemented
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// requestID propagates X-Request-ID into the context, minting one if absent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := kit.WithTransport(kit.WithRequestID(r.Context(), id), "http")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

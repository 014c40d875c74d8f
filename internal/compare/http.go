package compare

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PriceCompare/pkg/kit"
)

type Server struct {
	Service *Service
	Log     *zap.Logger
}

const (
	defaultRecentLimit   = 8
	defaultTrendingLimit = 6
	maxListLimit         = 50
)

var errBadLimit = errors.New("bad limit")

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Service.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/", s.root)
	r.Get("/test", s.diagnostics)

	r.Get("/api/search", s.search)
	r.Get("/api/search/recent", s.recent)
	r.Get("/api/trending", s.trending)
	r.Get("/api/catalogs", s.catalogs)

	return r
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Price Compare Backend running"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "q is required", nil)
		return
	}

	priceMin, err := parseOptFloat(r, "price_min")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "price_min must be a number", nil)
		return
	}
	priceMax, err := parseOptFloat(r, "price_max")
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "price_max must be a number", nil)
		return
	}

	resp, err := s.Service.Search(r.Context(), SearchParams{
		Query:    q,
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
		PriceMin: priceMin,
		PriceMax: priceMax,
	})
	if err != nil {
		if s.Log != nil {
			s.Log.Error("search failed", zap.Error(err), zap.String("query", q))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

type listResponse[T any] struct {
	Items       []T       `json:"items"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultRecentLimit)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}

	items := s.Service.RecentSearches(r.Context(), limit)
	kit.WriteJSON(w, http.StatusOK, listResponse[SearchRecord]{
		Items:       items,
		GeneratedAt: time.Now().UTC(),
	})
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultTrendingLimit)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, listResponse[TrendingDeal]{
		Items:       s.Service.TrendingDeals(limit),
		GeneratedAt: time.Now().UTC(),
	})
}

type catalogsResponse struct {
	Categories  []string  `json:"categories"`
	Brands      []string  `json:"brands"`
	Platforms   []string  `json:"platforms"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (s *Server) catalogs(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, catalogsResponse{
		Categories:  Categories,
		Brands:      Brands,
		Platforms:   Platforms,
		GeneratedAt: time.Now().UTC(),
	})
}

type diagnosticsResponse struct {
	Backend     string   `json:"backend"`
	Store       string   `json:"store"`
	Connected   bool     `json:"connected"`
	Collections []string `json:"collections,omitempty"`
	Error       string   `json:"error,omitempty"`
}

func (s *Server) diagnostics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := diagnosticsResponse{Backend: "running", Store: s.Service.Store.Kind()}
	if resp.Store == "none" {
		kit.WriteJSON(w, http.StatusOK, resp)
		return
	}

	if err := s.Service.Store.Ping(ctx); err != nil {
		resp.Error = err.Error()
		kit.WriteJSON(w, http.StatusOK, resp)
		return
	}
	resp.Connected = true

	if cols, err := s.Service.Store.Collections(ctx); err == nil {
		if len(cols) > 10 {
			cols = cols[:10]
		}
		resp.Collections = cols
	}

	kit.WriteJSON(w, http.StatusOK, resp)
}

func parseOptFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errBadLimit
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}

package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/corey/ruinadex/dex"
	"github.com/corey/ruinadex/internal/domain/locale"
)

const maxLimit = 200

// QueryResult is the body of /api/query.
type QueryResult struct {
	Query string `json:"query"`
	Hits  []Hit  `json:"hits"`
	Count int    `json:"count"`
}

// Hit is one ranked entity with its label.
type Hit struct {
	ID    dex.TypedID `json:"id"`
	Score uint32      `json:"score"`
	Label string      `json:"label"`
}

// RecordResult is the body of /api/records/{id}.
type RecordResult struct {
	ID              dex.TypedID       `json:"id"`
	Kind            string            `json:"kind"`
	Collectability  string            `json:"collectability"`
	Chapter         string            `json:"chapter,omitempty"`
	Labels          map[string]string `json:"labels"`
	Annotations     map[string]string `json:"annotations,omitempty"`
	Disambiguations map[string]string `json:"disambiguations,omitempty"`
	Record          dex.Record        `json:"record"`
}

// EncyclopediaEntry is one hit of /api/encyclopedia.
type EncyclopediaEntry struct {
	ID     uint32 `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Risk   string `json:"risk"`
	Damage string `json:"damage,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"queries":   strconv.Itoa(s.latency.Count()),
		"query_p50": s.latency.Median().String(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.dex.Stats())
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, err := parseLimit(r, 20)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	loc, err := parseLocale(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("query", zap.String("q", q), zap.Int("limit", limit))

	start := time.Now()
	scored := s.dex.Scored(q)
	s.latency.Record(time.Since(start))
	if len(scored) > limit {
		scored = scored[:limit]
	}
	hits := make([]Hit, len(scored))
	for i, h := range scored {
		hits[i] = Hit{ID: h.ID, Score: h.Score, Label: s.dex.Label(h.ID, loc)}
	}
	s.respondJSON(w, http.StatusOK, QueryResult{Query: q, Hits: hits, Count: len(hits)})
}

func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocale(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := parseLimit(r, dex.DefaultChoices)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	start := time.Now()
	choices := s.dex.Autocomplete(r.URL.Query().Get("q"), loc, limit)
	s.latency.Record(time.Since(start))
	s.respondJSON(w, http.StatusOK, map[string]any{"choices": choices})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	id, err := dex.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, ok := s.dex.Record(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "record not found")
		return
	}

	meta := rec.Meta()
	res := RecordResult{
		ID:              id,
		Kind:            id.Kind.Name(),
		Collectability:  meta.Collectability.String(),
		Labels:          make(map[string]string, len(locale.All)),
		Annotations:     make(map[string]string),
		Disambiguations: make(map[string]string),
		Record:          rec,
	}
	if meta.Chapter != nil {
		res.Chapter = meta.Chapter.String()
	}
	for _, loc := range locale.All {
		tag := loc.String()
		res.Labels[tag] = s.dex.Label(id, loc)
		if a, ok := s.dex.Annotation(id, loc); ok {
			res.Annotations[tag] = a
		}
		if d, ok := s.dex.Disambiguation(id, loc); ok {
			res.Disambiguations[tag] = d
		}
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleEncyclopedia(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, 20)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ids := s.dex.QueryEncyclopedia(r.URL.Query().Get("q"))
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]EncyclopediaEntry, 0, len(ids))
	for _, id := range ids {
		a, _ := s.dex.Encyclopedia(id)
		name, _ := s.dex.EncyclopediaName(id, locale.LoboEnglish)
		out = append(out, EncyclopediaEntry{
			ID:     id,
			Code:   a.Code,
			Name:   name,
			Risk:   a.Risk.String(),
			Damage: a.Damage.String(),
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"entries": out})
}

func parseLimit(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errBadLimit
	}
	return min(n, maxLimit), nil
}

func parseLocale(r *http.Request) (dex.Locale, error) {
	v := r.URL.Query().Get("locale")
	if v == "" {
		return dex.English, nil
	}
	return dex.ParseLocale(v)
}

type apiError string

func (e apiError) Error() string { return string(e) }

const errBadLimit = apiError("limit must be a positive integer")

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/app"
	"lokvista_admin/internal/domain"
)

type Handlers struct {
	Q      *app.QueryService
	Review *app.ReviewService
	Hotels *app.HotelService
	Desc   *app.DescriptionService

	// Dispatcher sends the notification endpoint emails; nil disables them.
	Dispatcher domain.Notifier
	// Audit serves the decision history; nil disables it.
	Audit domain.DecisionLog
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

var validate = validator.New()

// MountHandlers registers every route. mw wraps the /v1 and /api groups.
func (s *Server) MountHandlers(h *Handlers, mw ...func(http.Handler) http.Handler) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(mw...)
		r.Get("/dashboard", h.dashboard)
		r.Get("/tourist-places", h.listTouristPlaces)
		r.Get("/cultural-events", h.listCulturalEvents)

		r.Get("/submissions", h.listSubmissions)
		r.Get("/submissions/{id}", h.getSubmission)
		r.Post("/submissions/{id}/approve", h.approveSubmission)
		r.Post("/submissions/{id}/reject", h.rejectSubmission)
		r.Delete("/submissions/{id}", h.deleteSubmission)

		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/{id}", h.getHotel)
		r.Post("/hotels/{id}/approve", h.approveHotel)
		r.Post("/hotels/{id}/reject", h.rejectHotel)

		r.Get("/decisions", h.listDecisions)
		r.Post("/descriptions", h.generateDescription)
	})

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(mw...)
		r.Post("/contributor/email", h.contributorEmail)
		r.Post("/hotel/email", h.hotelEmail)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrNotVerified), errors.Is(err, domain.ErrAlreadyReviewed):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrReasonRequired), errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", err.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers with an ETag and honors If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func listFilter(r *http.Request) domain.ListFilter {
	q := r.URL.Query()
	return domain.ListFilter{Name: q.Get("name"), City: q.Get("city"), State: q.Get("state")}
}

func queryLimit(r *http.Request, def, max int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > max {
		return 0, false
	}
	return l, true
}

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	st, err := h.Q.DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, st)
}

func (h *Handlers) listTouristPlaces(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListTouristPlaces(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listCulturalEvents(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListCulturalEvents(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listSubmissions(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListSubmissions(r.Context(), listFilter(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Q.GetSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, sub)
}

func (h *Handlers) approveSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.Q.GetSubmission(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Review.Approve(r.Context(), id, sub)
	if err != nil {
		observability.ObserveDecision(domain.EntitySubmission, domain.ActionApprove, "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveDecision(domain.EntitySubmission, domain.ActionApprove, outcome(res.Notified))
	writeJSON(w, http.StatusOK, res)
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func (h *Handlers) rejectSubmission(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	sub, err := h.Q.GetSubmission(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Review.Reject(r.Context(), id, sub, body.Reason)
	if err != nil {
		observability.ObserveDecision(domain.EntitySubmission, domain.ActionReject, "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveDecision(domain.EntitySubmission, domain.ActionReject, outcome(res.Notified))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeProblem(w, http.StatusBadRequest, "Confirmation Required", "repeat the request with confirm=true")
		return
	}
	id := chi.URLParam(r, "id")
	sub, err := h.Q.GetSubmission(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Review.Delete(r.Context(), id, sub); err != nil {
		observability.ObserveDecision(domain.EntitySubmission, domain.ActionDelete, "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveDecision(domain.EntitySubmission, domain.ActionDelete, "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) generateDescription(w http.ResponseWriter, r *http.Request) {
	var in domain.DescriptionInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Desc.Generate(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": out})
}

func (h *Handlers) listDecisions(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		writeError(w, r, domain.ErrUnavailable)
		return
	}
	limit, ok := queryLimit(r, 100, 500)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
		return
	}
	out, err := h.Audit.ListDecisions(r.Context(), r.URL.Query().Get("entity_id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func outcome(notified bool) string {
	if notified {
		return "ok"
	}
	return "notify_failed"
}

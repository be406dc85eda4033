package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	st := domain.HotelPending
	if s := r.URL.Query().Get("status"); s != "" {
		var err error
		if st, err = domain.ParseHotelStatus(s); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid status", "status must be pending, approved or rejected")
			return
		}
	}
	out, err := h.Q.ListHotels(r.Context(), st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, hotel)
}

func (h *Handlers) approveHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Hotels.Approve(r.Context(), hotel)
	if err != nil {
		observability.ObserveDecision(domain.EntityHotel, domain.ActionApprove, "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveDecision(domain.EntityHotel, domain.ActionApprove, outcome(res.Notified))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) rejectHotel(w http.ResponseWriter, r *http.Request) {
	var body reasonBody
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Hotels.Reject(r.Context(), hotel, body.Reason)
	if err != nil {
		observability.ObserveDecision(domain.EntityHotel, domain.ActionReject, "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveDecision(domain.EntityHotel, domain.ActionReject, outcome(res.Notified))
	writeJSON(w, http.StatusOK, res)
}

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/domain"
)

// The notification endpoints answer {success,message} or {success:false,error}
// instead of problem+json; existing callers depend on that shape.

type contributorEmailRequest struct {
	To        string `json:"to" validate:"required"`
	PlaceName string `json:"placeName" validate:"required"`
	Status    *bool  `json:"status" validate:"required"`
	Reason    string `json:"reason"`
}

type hotelEmailRequest struct {
	To        string `json:"to" validate:"required"`
	HotelName string `json:"hotelName" validate:"required"`
	Status    *bool  `json:"status" validate:"required"`
	Reason    string `json:"reason"`
}

type emailReply struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handlers) contributorEmail(w http.ResponseWriter, r *http.Request) {
	var req contributorEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeJSON(w, http.StatusBadRequest, emailReply{Error: "Missing required fields: to, placeName, status"})
		return
	}
	n := domain.Notification{To: req.To, EntityName: req.PlaceName, Approved: *req.Status, Reason: req.Reason}
	h.dispatch(w, r, n, func(ctx context.Context, d domain.Notifier) error { return d.NotifyContributor(ctx, n) })
}

func (h *Handlers) hotelEmail(w http.ResponseWriter, r *http.Request) {
	var req hotelEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || validate.Struct(req) != nil {
		writeJSON(w, http.StatusBadRequest, emailReply{Error: "Missing required fields: to, hotelName, status"})
		return
	}
	n := domain.Notification{To: req.To, EntityName: req.HotelName, Approved: *req.Status, Reason: req.Reason}
	h.dispatch(w, r, n, func(ctx context.Context, d domain.Notifier) error { return d.NotifyHotelOwner(ctx, n) })
}

func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, n domain.Notification, send func(context.Context, domain.Notifier) error) {
	if h.Dispatcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, emailReply{Error: "email transport not configured"})
		return
	}
	if err := send(r.Context(), h.Dispatcher); err != nil {
		log.Error().Err(err).Str("to", n.To).Bool("approved", n.Approved).Msg("error sending email")
		writeJSON(w, http.StatusInternalServerError, emailReply{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, emailReply{Success: true, Message: "Email sent successfully"})
}

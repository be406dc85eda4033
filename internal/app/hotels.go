package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/domain"
)

// HotelService moves hotels out of pending. Unlike submissions, hotels stay in
// one collection for their whole lifecycle, so each decision is a single write.
type HotelService struct {
	hotels   domain.HotelRepository
	notifier domain.Notifier
	audit    domain.DecisionLog
	cache    domain.Cache
	now      func() time.Time
}

func NewHotelService(h domain.HotelRepository, n domain.Notifier, audit domain.DecisionLog, c domain.Cache) *HotelService {
	return &HotelService{
		hotels:   h,
		notifier: n,
		audit:    audit,
		cache:    c,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type HotelDecisionResult struct {
	HotelID     string             `json:"hotelId"`
	Status      domain.HotelStatus `json:"status"`
	Notified    bool               `json:"notified"`
	NotifyError string             `json:"notifyError,omitempty"`
}

func (s *HotelService) Approve(ctx context.Context, h domain.Hotel) (HotelDecisionResult, error) {
	return s.decide(ctx, h, domain.HotelApproved, "")
}

func (s *HotelService) Reject(ctx context.Context, h domain.Hotel, reason string) (HotelDecisionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return HotelDecisionResult{}, domain.ErrReasonRequired
	}
	return s.decide(ctx, h, domain.HotelRejected, reason)
}

func (s *HotelService) decide(ctx context.Context, h domain.Hotel, status domain.HotelStatus, reason string) (HotelDecisionResult, error) {
	if err := s.hotels.SetHotelStatus(ctx, h.ID, status, reason, s.now()); err != nil {
		return HotelDecisionResult{}, fmt.Errorf("set hotel %s %s: %w", h.ID, status, err)
	}
	invalidate(ctx, s.cache,
		hotelsKey(domain.HotelPending), hotelsKey(domain.HotelApproved), hotelsKey(domain.HotelRejected),
		keyDashboard)

	res := HotelDecisionResult{HotelID: h.ID, Status: status}
	n := domain.Notification{
		To:         h.OwnerInfo.Email,
		EntityName: h.BasicInfo.Name,
		Approved:   status == domain.HotelApproved,
		Reason:     reason,
	}
	var nerr error
	if s.notifier == nil {
		nerr = errors.New("notifier not configured")
	} else {
		nerr = s.notifier.NotifyHotelOwner(ctx, n)
	}
	if nerr != nil {
		log.Error().Err(nerr).Str("hotel", h.ID).Msg("hotel email failed")
		res.NotifyError = nerr.Error()
	} else {
		res.Notified = true
	}

	action := domain.ActionApprove
	if status == domain.HotelRejected {
		action = domain.ActionReject
	}
	log.Info().Str("hotel", h.ID).Str("status", status.String()).Bool("notified", res.Notified).Msg("hotel reviewed")
	recordDecision(ctx, s.audit, domain.Decision{
		EntityKind: domain.EntityHotel,
		EntityID:   h.ID,
		Action:     action,
		Reason:     reason,
		Notified:   res.Notified,
	}, s.now())
	return res, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/domain"
)

// ReviewService approves, rejects and deletes user submissions.
//
// Approval is a sequence of writes across collections. Each step is recorded
// in the submission's approvalStage and is safe to repeat, so a failed run is
// finished by approving again (or by cmd/resumer) without duplicating the
// target record or its images. Steps run inside a store transaction when the
// store supports one. Notification happens after the writes and never undoes them.
type ReviewService struct {
	places   domain.PlaceRepository
	notifier domain.Notifier
	audit    domain.DecisionLog
	cache    domain.Cache
	now      func() time.Time
	newID    func() string
}

func NewReviewService(p domain.PlaceRepository, n domain.Notifier, audit domain.DecisionLog, c domain.Cache) *ReviewService {
	return &ReviewService{
		places:   p,
		notifier: n,
		audit:    audit,
		cache:    c,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

type ApprovalResult struct {
	SubmissionID     string `json:"submissionId"`
	TargetCollection string `json:"targetCollection"`
	TargetID         string `json:"targetId"`
	ImagesCopied     int    `json:"imagesCopied"`
	Resumed          bool   `json:"resumed"`
	Notified         bool   `json:"notified"`
	NotifyError      string `json:"notifyError,omitempty"`
}

type RejectionResult struct {
	SubmissionID string `json:"submissionId"`
	Notified     bool   `json:"notified"`
	NotifyError  string `json:"notifyError,omitempty"`
}

// Approve promotes sub (previously loaded by the caller) into its target collection.
func (s *ReviewService) Approve(ctx context.Context, id string, sub domain.Submission) (ApprovalResult, error) {
	if sub.Rejected {
		return ApprovalResult{}, fmt.Errorf("approve %s: %w (rejected)", id, domain.ErrAlreadyReviewed)
	}
	if sub.ApprovalStage.Done() {
		return ApprovalResult{}, fmt.Errorf("approve %s: %w", id, domain.ErrAlreadyReviewed)
	}

	area := domain.ClassifyArea(sub.Area)
	res := ApprovalResult{SubmissionID: id, TargetCollection: area.Collection()}
	attempt := s.newID()

	// The callback re-reads the submission so a retried transaction or a
	// second admin works from what is stored, not from the caller's copy.
	err := s.places.WithTransaction(ctx, func(ctx context.Context) error {
		cur, err := s.places.GetSubmission(ctx, id)
		if err != nil {
			return fmt.Errorf("reload: %w", err)
		}
		if cur.Rejected || cur.ApprovalStage.Done() {
			return domain.ErrAlreadyReviewed
		}
		stage := cur.ApprovalStage
		res.Resumed = stage != domain.StageNone
		res.ImagesCopied = 0
		res.TargetID = cur.PlaceLinked
		if cur.TargetCollection != "" {
			res.TargetCollection = cur.TargetCollection
		}

		// 1) mark reviewed
		if !stage.Reached(domain.StageVerified) {
			if err := s.places.MarkVerified(ctx, id, attempt); err != nil {
				return fmt.Errorf("mark verified: %w", err)
			}
		}

		// 2+3) allocate the target id first, then write the shaped record under it
		if res.TargetID == "" {
			linked, err := s.places.LinkTarget(ctx, id, res.TargetCollection, s.newID())
			if err != nil {
				return fmt.Errorf("link target: %w", err)
			}
			res.TargetID = linked
		}
		if !stage.Reached(domain.StageTargetWritten) {
			if err := s.places.UpsertTarget(ctx, res.TargetCollection, res.TargetID, shapeTarget(area, sub)); err != nil {
				return fmt.Errorf("write %s/%s: %w", res.TargetCollection, res.TargetID, err)
			}
			if err := s.places.SetApprovalStage(ctx, id, domain.StageTargetWritten); err != nil {
				return fmt.Errorf("record stage: %w", err)
			}
		}

		// 4) relink images into the global collection
		if !stage.Reached(domain.StageImagesCopied) {
			imgs, err := s.places.ListSubmissionImages(ctx, id)
			if err != nil {
				return fmt.Errorf("list images: %w", err)
			}
			now := s.now()
			for _, im := range imgs {
				if err := s.places.UpsertImage(ctx, globalImage(im, res.TargetID, now)); err != nil {
					return fmt.Errorf("copy image %s: %w", im.ID, err)
				}
				res.ImagesCopied++
			}
			if err := s.places.SetApprovalStage(ctx, id, domain.StageImagesCopied); err != nil {
				return fmt.Errorf("record stage: %w", err)
			}
		}
		return nil
	})
	invalidate(ctx, s.cache, keySubmissions, keyDashboard, listKeyFor(res.TargetCollection))
	if errors.Is(err, domain.ErrAlreadyReviewed) {
		return ApprovalResult{}, fmt.Errorf("approve %s: %w", id, err)
	}
	if err != nil {
		log.Error().Err(err).Str("submission", id).Str("target", res.TargetID).Msg("approval stopped")
		return res, fmt.Errorf("approve %s: %w", id, err)
	}

	// 5) notify the submitter
	if nerr := s.notify(ctx, domain.Notification{To: sub.UserEmail, EntityName: sub.Name, Approved: true}); nerr != nil {
		log.Error().Err(nerr).Str("submission", id).Msg("approval email failed")
		res.NotifyError = nerr.Error()
	} else {
		res.Notified = true
		if err := s.places.SetApprovalStage(ctx, id, domain.StageNotified); err != nil {
			log.Warn().Err(err).Str("submission", id).Msg("record notified stage failed")
		}
	}

	log.Info().
		Str("submission", id).
		Str("collection", res.TargetCollection).
		Str("target", res.TargetID).
		Int("images", res.ImagesCopied).
		Bool("resumed", res.Resumed).
		Bool("notified", res.Notified).
		Msg("submission approved")

	s.record(ctx, domain.Decision{
		EntityKind:       domain.EntitySubmission,
		EntityID:         id,
		Action:           domain.ActionApprove,
		TargetCollection: res.TargetCollection,
		TargetID:         res.TargetID,
		Notified:         res.Notified,
	})
	return res, nil
}

// Resume finishes an approval that stopped part way.
func (s *ReviewService) Resume(ctx context.Context, id string) (ApprovalResult, error) {
	sub, err := s.places.GetSubmission(ctx, id)
	if err != nil {
		return ApprovalResult{}, err
	}
	return s.Approve(ctx, id, sub)
}

// Reject marks sub rejected and mails the reason. It never sets verified.
func (s *ReviewService) Reject(ctx context.Context, id string, sub domain.Submission, reason string) (RejectionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return RejectionResult{}, domain.ErrReasonRequired
	}
	if sub.Verified {
		return RejectionResult{}, fmt.Errorf("reject %s: %w (verified)", id, domain.ErrAlreadyReviewed)
	}
	if sub.Rejected {
		return RejectionResult{}, fmt.Errorf("reject %s: %w", id, domain.ErrAlreadyReviewed)
	}

	if err := s.places.MarkRejected(ctx, id, reason, s.now()); err != nil {
		return RejectionResult{}, fmt.Errorf("reject %s: %w", id, err)
	}
	invalidate(ctx, s.cache, keySubmissions, keyDashboard)

	res := RejectionResult{SubmissionID: id}
	if nerr := s.notify(ctx, domain.Notification{To: sub.UserEmail, EntityName: sub.Name, Reason: reason}); nerr != nil {
		log.Error().Err(nerr).Str("submission", id).Msg("rejection email failed")
		res.NotifyError = nerr.Error()
	} else {
		res.Notified = true
	}

	log.Info().Str("submission", id).Bool("notified", res.Notified).Msg("submission rejected")
	s.record(ctx, domain.Decision{
		EntityKind: domain.EntitySubmission,
		EntityID:   id,
		Action:     domain.ActionReject,
		Reason:     reason,
		Notified:   res.Notified,
	})
	return res, nil
}

// Delete removes a verified submission. The promoted record and its images stay.
func (s *ReviewService) Delete(ctx context.Context, id string, sub domain.Submission) error {
	if !sub.Verified {
		return fmt.Errorf("delete %s: %w", id, domain.ErrNotVerified)
	}
	if err := s.places.DeleteSubmission(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	invalidate(ctx, s.cache, keySubmissions, keyDashboard)

	log.Info().Str("submission", id).Str("place", sub.PlaceLinked).Msg("submission deleted")
	s.record(ctx, domain.Decision{
		EntityKind:       domain.EntitySubmission,
		EntityID:         id,
		Action:           domain.ActionDelete,
		TargetCollection: sub.TargetCollection,
		TargetID:         sub.PlaceLinked,
	})
	return nil
}

func (s *ReviewService) notify(ctx context.Context, n domain.Notification) error {
	if s.notifier == nil {
		return errors.New("notifier not configured")
	}
	return s.notifier.NotifyContributor(ctx, n)
}

func (s *ReviewService) record(ctx context.Context, d domain.Decision) {
	recordDecision(ctx, s.audit, d, s.now())
}

// recordDecision appends to the audit log; failures are logged only.
func recordDecision(ctx context.Context, audit domain.DecisionLog, d domain.Decision, now time.Time) {
	if audit == nil {
		return
	}
	d.Actor = domain.ActorFrom(ctx)
	d.CreatedAt = now
	if err := audit.RecordDecision(ctx, d); err != nil {
		log.Warn().Err(err).Str("entity", d.EntityID).Str("action", d.Action).Msg("audit write failed")
	}
}

package domain

import (
	"context"
	"time"
)

type PlaceRepository interface {
	// Read paths
	ListLocations(ctx context.Context, collection string) ([]Location, error)
	FirstImageForPlace(ctx context.Context, placeID string) (string, bool, error)
	ListSubmissions(ctx context.Context) ([]Submission, error)
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissionImages(ctx context.Context, submissionID string) ([]SubmissionImage, error)
	ListStuckApprovals(ctx context.Context, limit int) ([]Submission, error)
	Count(ctx context.Context, collection string) (int64, error)
	CountPendingSubmissions(ctx context.Context) (int64, error)

	// Write paths. Stage writes never move approvalStage backwards.
	MarkVerified(ctx context.Context, id, attempt string) error
	// LinkTarget records targetID unless the submission is already linked,
	// and returns the id that is stored afterwards.
	LinkTarget(ctx context.Context, id, collection, targetID string) (string, error)
	UpsertTarget(ctx context.Context, collection, targetID string, record any) error
	UpsertImage(ctx context.Context, img Image) error
	SetApprovalStage(ctx context.Context, id string, stage ApprovalStage) error
	MarkRejected(ctx context.Context, id, reason string, at time.Time) error
	DeleteSubmission(ctx context.Context, id string) error

	// WithTransaction runs fn atomically when the store supports it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type HotelRepository interface {
	ListHotels(ctx context.Context, status HotelStatus) ([]Hotel, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	SetHotelStatus(ctx context.Context, id string, status HotelStatus, reason string, at time.Time) error
	CountHotels(ctx context.Context, status HotelStatus) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type Notifier interface {
	NotifyContributor(ctx context.Context, n Notification) error
	NotifyHotelOwner(ctx context.Context, n Notification) error
}

type DecisionLog interface {
	RecordDecision(ctx context.Context, d Decision) error
	ListDecisions(ctx context.Context, entityID string, limit int) ([]Decision, error)
}

type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, in DescriptionInput) (string, error)
}

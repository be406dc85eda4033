package domain

import "time"

// Decision is one audit entry for an admin review action.
type Decision struct {
	ID               int64     `json:"id"`
	EntityKind       string    `json:"entityKind"` // submission|hotel
	EntityID         string    `json:"entityId"`
	Action           string    `json:"action"` // approve|reject|delete
	Actor            string    `json:"actor,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	TargetCollection string    `json:"targetCollection,omitempty"`
	TargetID         string    `json:"targetId,omitempty"`
	Notified         bool      `json:"notified"`
	CreatedAt        time.Time `json:"createdAt"`
}

const (
	EntitySubmission = "submission"
	EntityHotel      = "hotel"

	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionDelete  = "delete"
)

// Notification is the input of the notification dispatcher.
type Notification struct {
	To         string
	EntityName string
	Approved   bool
	Reason     string
}

// DescriptionInput feeds the location description generator.
type DescriptionInput struct {
	Coordinates    string `json:"coordinates" validate:"required"`
	Landmarks      string `json:"landmarks" validate:"required"`
	Infrastructure string `json:"infrastructure" validate:"required"`
}

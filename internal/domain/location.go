package domain

import (
	"strings"
	"time"
)

// Collection names are part of the external contract.
const (
	CollTouristPlaces    = "touristplaces"
	CollCulturalFest     = "culturalfest"
	CollOtherSubmissions = "othersubmissions"
	CollSubmissions      = "usersubmittedplaces"
	CollSubmissionImages = "usersubmittedplaces.images"
	CollImages           = "images"
	CollHotels           = "hotels"
	PlaceholderImageURL  = "https://picsum.photos/seed/default/600/400"
	PlaceholderImageHint = "placeholder"
	CulturalEventType    = "Cultural Event"
)

// Location is the base shape shared by tourist places and cultural events.
type Location struct {
	ID             string `bson:"_id,omitempty" json:"id"`
	Name           string `bson:"name" json:"name"`
	City           string `bson:"city" json:"city"`
	State          string `bson:"state" json:"state"`
	ImageURL       string `bson:"-" json:"imageUrl"`
	ImageHint      string `bson:"imageHint,omitempty" json:"imageHint"`
	Coordinates    string `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Landmarks      string `bson:"landmarks,omitempty" json:"landmarks,omitempty"`
	Infrastructure string `bson:"infrastructure,omitempty" json:"infrastructure,omitempty"`
}

// Submission is a user-submitted place or event awaiting review.
type Submission struct {
	Location `bson:",inline"`

	District          string     `bson:"district,omitempty" json:"district,omitempty"`
	Town              string     `bson:"town,omitempty" json:"town,omitempty"`
	Latitude          float64    `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         float64    `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Description       string     `bson:"description,omitempty" json:"description,omitempty"`
	Area              string     `bson:"area,omitempty" json:"area,omitempty"`
	EntranceFees      *string    `bson:"entrance_fees,omitempty" json:"entrance_fees,omitempty"`
	StartDate         *string    `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate           *string    `bson:"end_date,omitempty" json:"end_date,omitempty"`
	BestSeason        *string    `bson:"best_season,omitempty" json:"best_season,omitempty"`
	TimeNeededToVisit *string    `bson:"time_needed_to_visit,omitempty" json:"time_needed_to_visit,omitempty"`
	IsGuide           *bool      `bson:"isguide,omitempty" json:"isguide,omitempty"`
	VideoURL          *string    `bson:"videourl,omitempty" json:"videourl,omitempty"`
	UserEmail         string     `bson:"useremail,omitempty" json:"-"`
	SubmittedBy       string     `bson:"-" json:"submittedBy"`
	Verified          bool       `bson:"verified" json:"verified"`
	Rejected          bool       `bson:"rejected,omitempty" json:"rejected,omitempty"`
	RejectionReason   string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ReviewedAt        *time.Time `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt         time.Time  `bson:"created_at,omitempty" json:"createdAt,omitempty"`

	// Approval bookkeeping; see ApprovalStage.
	PlaceLinked      string        `bson:"placeLinked,omitempty" json:"placeLinked,omitempty"`
	TargetCollection string        `bson:"targetCollection,omitempty" json:"targetCollection,omitempty"`
	ApprovalStage    ApprovalStage `bson:"approvalStage,omitempty" json:"approvalStage,omitempty"`
	ApprovalAttempt  string        `bson:"approvalAttempt,omitempty" json:"-"`

	Images []string `bson:"-" json:"images,omitempty"`
}

// SubmissionImage lives under a submission until approval.
type SubmissionImage struct {
	ID           string     `bson:"_id,omitempty"`
	SubmissionID string     `bson:"submissionId"`
	URL          string     `bson:"url"`
	UploadedAt   *time.Time `bson:"uploadedAt,omitempty"`
}

// Image is a global image record referencing a live place or event.
type Image struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	ImageURL   string    `bson:"imageUrl" json:"imageUrl"`
	PlaceID    string    `bson:"placeId" json:"placeId"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// CulturalEventRecord is the shape written to culturalfest.
type CulturalEventRecord struct {
	Name             string     `bson:"name"`
	Town             string     `bson:"town"`
	City             string     `bson:"city"`
	District         string     `bson:"district"`
	Longitude        float64    `bson:"longitude"`
	Latitude         float64    `bson:"latitude"`
	DateOfOrganizing *time.Time `bson:"date_of_organizing"`
	DateOfEnding     *time.Time `bson:"date_of_ending"`
	Description      string     `bson:"description"`
	Zone             string     `bson:"zone"`
	Type             string     `bson:"type"`
}

// TouristPlaceRecord is the shape written to touristplaces and othersubmissions.
type TouristPlaceRecord struct {
	Name              string  `bson:"name"`
	Town              string  `bson:"town"`
	City              string  `bson:"city"`
	District          string  `bson:"district"`
	State             string  `bson:"state"`
	Longitude         float64 `bson:"longitude"`
	Latitude          float64 `bson:"latitude"`
	Description       string  `bson:"description"`
	EntranceFees      string  `bson:"entrance_fees"`
	BestSeason        string  `bson:"best_season"`
	TimeNeededToVisit string  `bson:"time_needed_to_visit"`
	IsGuide           bool    `bson:"isguide"`
	VideoURL          string  `bson:"videourl"`
}

// Area selects the promotion branch of a submission.
type Area int

const (
	AreaOther Area = iota
	AreaCultural
	AreaTourist
)

// ClassifyArea matches the area discriminator case-insensitively.
func ClassifyArea(raw string) Area {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cultural":
		return AreaCultural
	case "tourist":
		return AreaTourist
	default:
		return AreaOther
	}
}

// Collection is the target collection for the area.
func (a Area) Collection() string {
	switch a {
	case AreaCultural:
		return CollCulturalFest
	case AreaTourist:
		return CollTouristPlaces
	default:
		return CollOtherSubmissions
	}
}

// ApprovalStage records how far an approval got. Stages only move forward.
type ApprovalStage string

const (
	StageNone          ApprovalStage = ""
	StageVerified      ApprovalStage = "verified"
	StageLinked        ApprovalStage = "linked"
	StageTargetWritten ApprovalStage = "target_written"
	StageImagesCopied  ApprovalStage = "images_copied"
	StageNotified      ApprovalStage = "notified"
)

var stageRank = map[ApprovalStage]int{
	StageNone:          0,
	StageVerified:      1,
	StageLinked:        2,
	StageTargetWritten: 3,
	StageImagesCopied:  4,
	StageNotified:      5,
}

// Reached reports whether s is at or past other.
func (s ApprovalStage) Reached(other ApprovalStage) bool {
	return stageRank[s] >= stageRank[other]
}

// Done reports whether every approval step, notification included, completed.
func (s ApprovalStage) Done() bool { return s == StageNotified }

// StagesBefore lists the stages strictly earlier than s.
func StagesBefore(s ApprovalStage) []ApprovalStage {
	var out []ApprovalStage
	for st, r := range stageRank {
		if r < stageRank[s] {
			out = append(out, st)
		}
	}
	return out
}

// StagesFrom lists s and every stage after it.
func StagesFrom(s ApprovalStage) []ApprovalStage {
	var out []ApprovalStage
	for st, r := range stageRank {
		if r >= stageRank[s] {
			out = append(out, st)
		}
	}
	return out
}

// DashboardStats are the counts shown on the dashboard.
type DashboardStats struct {
	Places             int64 `json:"places"`
	Events             int64 `json:"events"`
	Submissions        int64 `json:"submissions"`
	PendingSubmissions int64 `json:"pendingSubmissions"`
	PendingHotels      int64 `json:"pendingHotels"`
}

// ListFilter holds case-insensitive substring filters for list views.
type ListFilter struct {
	Name  string
	City  string
	State string
}

// Empty reports whether no filter field is set.
func (f ListFilter) Empty() bool { return f.Name == "" && f.City == "" && f.State == "" }

package app

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lokvista_admin/internal/domain"
)

/********** tiny helpers **********/

func derefOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// dateLayouts are the formats the submission form is known to produce.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"02/01/2006",
	"January 2, 2006",
}

// parseSubmissionDate returns nil for absent or unparseable dates.
func parseSubmissionDate(p *string) *time.Time {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	log.Warn().Str("context", "parseSubmissionDate").Str("value", s).Msg("unrecognized date, storing null")
	return nil
}

/********** target record shaping **********/

// shapeTarget builds the record written to the area's target collection.
func shapeTarget(area domain.Area, sub domain.Submission) any {
	if area == domain.AreaCultural {
		return domain.CulturalEventRecord{
			Name:             sub.Name,
			Town:             sub.Town,
			City:             sub.City,
			District:         sub.District,
			Longitude:        sub.Longitude,
			Latitude:         sub.Latitude,
			DateOfOrganizing: parseSubmissionDate(sub.StartDate),
			DateOfEnding:     parseSubmissionDate(sub.EndDate),
			Description:      sub.Description,
			Zone:             sub.State,
			Type:             domain.CulturalEventType,
		}
	}
	// tourist places and the fallback collection share the full shape
	return domain.TouristPlaceRecord{
		Name:              sub.Name,
		Town:              sub.Town,
		City:              sub.City,
		District:          sub.District,
		State:             sub.State,
		Longitude:         sub.Longitude,
		Latitude:          sub.Latitude,
		Description:       sub.Description,
		EntranceFees:      derefOr(sub.EntranceFees, ""),
		BestSeason:        derefOr(sub.BestSeason, ""),
		TimeNeededToVisit: derefOr(sub.TimeNeededToVisit, ""),
		IsGuide:           boolOr(sub.IsGuide, false),
		VideoURL:          derefOr(sub.VideoURL, ""),
	}
}

// globalImage maps a submission image onto the global images collection.
// The source id is reused so repeated copies overwrite instead of duplicating.
func globalImage(src domain.SubmissionImage, targetID string, now time.Time) domain.Image {
	uploaded := now
	if src.UploadedAt != nil && !src.UploadedAt.IsZero() {
		uploaded = *src.UploadedAt
	}
	return domain.Image{
		ID:         src.ID,
		ImageURL:   src.URL,
		PlaceID:    targetID,
		UploadedAt: uploaded,
	}
}

package app

import (
	"strings"

	"lokvista_admin/internal/domain"
)

func matches(l domain.Location, f domain.ListFilter) bool {
	return containsFold(l.Name, f.Name) && containsFold(l.City, f.City) && containsFold(l.State, f.State)
}

func containsFold(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// FilterLocations keeps rows whose name, city and state contain the filter values.
func FilterLocations(in []domain.Location, f domain.ListFilter) []domain.Location {
	if f.Empty() {
		return in
	}
	out := make([]domain.Location, 0, len(in))
	for _, l := range in {
		if matches(l, f) {
			out = append(out, l)
		}
	}
	return out
}

func FilterSubmissions(in []domain.Submission, f domain.ListFilter) []domain.Submission {
	if f.Empty() {
		return in
	}
	out := make([]domain.Submission, 0, len(in))
	for _, s := range in {
		if matches(s.Location, f) {
			out = append(out, s)
		}
	}
	return out
}

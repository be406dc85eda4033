package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"lokvista_admin/internal/domain"
)

// cache keys for list views
const (
	keyTouristPlaces  = "places:touristplaces"
	keyCulturalEvents = "places:culturalfest"
	keySubmissions    = "submissions:all"
	keyDashboard      = "dashboard:stats"
)

func hotelsKey(st domain.HotelStatus) string { return "hotels:" + st.String() }

type QueryService struct {
	places   domain.PlaceRepository
	hotels   domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
	workers  int
}

func NewQueryService(p domain.PlaceRepository, h domain.HotelRepository, c domain.Cache, ttl time.Duration, workers int) *QueryService {
	if workers <= 0 {
		workers = 8
	}
	return &QueryService{places: p, hotels: h, cache: c, cacheTTL: ttl, workers: workers}
}

func (s *QueryService) ListTouristPlaces(ctx context.Context, f domain.ListFilter) ([]domain.Location, error) {
	all, err := s.locations(ctx, keyTouristPlaces, domain.CollTouristPlaces)
	if err != nil {
		return nil, err
	}
	return FilterLocations(all, f), nil
}

func (s *QueryService) ListCulturalEvents(ctx context.Context, f domain.ListFilter) ([]domain.Location, error) {
	all, err := s.locations(ctx, keyCulturalEvents, domain.CollCulturalFest)
	if err != nil {
		return nil, err
	}
	return FilterLocations(all, f), nil
}

func (s *QueryService) locations(ctx context.Context, key, collection string) ([]domain.Location, error) {
	var out []domain.Location
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	locs, err := s.places.ListLocations(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	out = make([]domain.Location, len(locs))
	copy(out, locs)

	// one image lookup per row; a failed lookup degrades to the placeholder
	s.forEach(len(out), func(i int) {
		url, ok, err := s.places.FirstImageForPlace(ctx, out[i].ID)
		if err != nil {
			log.Warn().Err(err).Str("collection", collection).Str("id", out[i].ID).Msg("image lookup failed")
		}
		if err != nil || !ok || url == "" {
			out[i].ImageURL = domain.PlaceholderImageURL
			if out[i].ImageHint == "" {
				out[i].ImageHint = domain.PlaceholderImageHint
			}
			return
		}
		out[i].ImageURL = url
	})

	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) ListSubmissions(ctx context.Context, f domain.ListFilter) ([]domain.Submission, error) {
	var out []domain.Submission
	if s.cacheGet(ctx, keySubmissions, &out) {
		return FilterSubmissions(out, f), nil
	}

	subs, err := s.places.ListSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out = make([]domain.Submission, len(subs))
	for i, sub := range subs {
		out[i] = withListDefaults(sub)
	}

	s.forEach(len(out), func(i int) {
		imgs, err := s.places.ListSubmissionImages(ctx, out[i].ID)
		if err != nil {
			log.Warn().Err(err).Str("submission", out[i].ID).Msg("submission image lookup failed")
		}
		if err == nil && len(imgs) > 0 && imgs[0].URL != "" {
			out[i].ImageURL = imgs[0].URL
			return
		}
		out[i].ImageURL = domain.PlaceholderImageURL
		out[i].ImageHint = domain.PlaceholderImageHint
	})

	s.cacheSet(ctx, keySubmissions, out)
	return FilterSubmissions(out, f), nil
}

// GetSubmission loads the detail view with every image URL.
func (s *QueryService) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	sub, err := s.places.GetSubmission(ctx, id)
	if err != nil {
		return domain.Submission{}, err
	}
	sub.SubmittedBy = sub.UserEmail
	imgs, err := s.places.ListSubmissionImages(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("list images of %s: %w", id, err)
	}
	for _, im := range imgs {
		if im.URL != "" {
			sub.Images = append(sub.Images, im.URL)
		}
	}
	if len(sub.Images) > 0 {
		sub.ImageURL = sub.Images[0]
	}
	return sub, nil
}

func (s *QueryService) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	var st domain.DashboardStats
	if s.cacheGet(ctx, keyDashboard, &st) {
		return st, nil
	}

	var err error
	if st.Places, err = s.places.Count(ctx, domain.CollTouristPlaces); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count places: %w", err)
	}
	if st.Events, err = s.places.Count(ctx, domain.CollCulturalFest); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count events: %w", err)
	}
	if st.Submissions, err = s.places.Count(ctx, domain.CollSubmissions); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count submissions: %w", err)
	}
	if st.PendingSubmissions, err = s.places.CountPendingSubmissions(ctx); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("count pending submissions: %w", err)
	}
	if s.hotels != nil {
		if st.PendingHotels, err = s.hotels.CountHotels(ctx, domain.HotelPending); err != nil {
			return domain.DashboardStats{}, fmt.Errorf("count pending hotels: %w", err)
		}
	}

	s.cacheSet(ctx, keyDashboard, st)
	return st, nil
}

func (s *QueryService) ListHotels(ctx context.Context, status domain.HotelStatus) ([]domain.Hotel, error) {
	key := hotelsKey(status)
	var out []domain.Hotel
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	hs, err := s.hotels.ListHotels(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list hotels (%s): %w", status, err)
	}
	out = make([]domain.Hotel, len(hs))
	copy(out, hs)
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	return s.hotels.GetHotel(ctx, id)
}

// forEach runs fn for 0..n-1 with at most s.workers in flight.
func (s *QueryService) forEach(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func withListDefaults(sub domain.Submission) domain.Submission {
	if sub.Name == "" {
		sub.Name = "Unnamed"
	}
	if sub.City == "" {
		sub.City = "Unknown City"
	}
	sub.SubmittedBy = sub.UserEmail
	if sub.SubmittedBy == "" {
		sub.SubmittedBy = "unknown"
	}
	return sub
}

// invalidate drops cached views after a write; failures only cost freshness.
func invalidate(ctx context.Context, c domain.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := c.Del(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("cache invalidation failed")
		}
	}
}

func listKeyFor(collection string) string {
	switch collection {
	case domain.CollTouristPlaces:
		return keyTouristPlaces
	case domain.CollCulturalFest:
		return keyCulturalEvents
	}
	return ""
}

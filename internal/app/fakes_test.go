package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"lokvista_admin/internal/domain"
)

var errBoom = errors.New("boom")

// ---- in-memory document store ----

type fakeStore struct {
	mu sync.Mutex

	locations   map[string][]domain.Location
	placeImages map[string]string
	imageErr    map[string]error
	subs        map[string]domain.Submission
	subOrder    []string
	subImages   map[string][]domain.SubmissionImage
	targets     map[string]map[string]any
	images      map[string]domain.Image
	hotels      map[string]domain.Hotel

	// failOn makes the named method fail failTimes times.
	failOn    string
	failTimes int
	txCalls   int
	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		locations:   map[string][]domain.Location{},
		placeImages: map[string]string{},
		imageErr:    map[string]error{},
		subs:        map[string]domain.Submission{},
		subImages:   map[string][]domain.SubmissionImage{},
		targets:     map[string]map[string]any{},
		images:      map[string]domain.Image{},
		hotels:      map[string]domain.Hotel{},
	}
}

func (f *fakeStore) addSubmission(s domain.Submission, imgs ...domain.SubmissionImage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[s.ID] = s
	f.subOrder = append(f.subOrder, s.ID)
	f.subImages[s.ID] = imgs
}

func (f *fakeStore) sub(id string) domain.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[id]
}

func (f *fakeStore) fail(method string) error {
	if f.failOn == method && f.failTimes > 0 {
		f.failTimes--
		return errBoom
	}
	return nil
}

func (f *fakeStore) ListLocations(ctx context.Context, collection string) ([]domain.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.fail("ListLocations"); err != nil {
		return nil, err
	}
	return append([]domain.Location(nil), f.locations[collection]...), nil
}

func (f *fakeStore) FirstImageForPlace(ctx context.Context, placeID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.imageErr[placeID]; err != nil {
		return "", false, err
	}
	u, ok := f.placeImages[placeID]
	return u, ok, nil
}

func (f *fakeStore) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []domain.Submission{}
	for _, id := range f.subOrder {
		if s, ok := f.subs[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[id]
	if !ok {
		return domain.Submission{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) ListSubmissionImages(ctx context.Context, submissionID string) ([]domain.SubmissionImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListSubmissionImages"); err != nil {
		return nil, err
	}
	return append([]domain.SubmissionImage(nil), f.subImages[submissionID]...), nil
}

func (f *fakeStore) ListStuckApprovals(ctx context.Context, limit int) ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Submission
	for _, id := range f.subOrder {
		s := f.subs[id]
		if s.Verified && !s.Rejected && !s.ApprovalStage.Done() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context, collection string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if collection == domain.CollSubmissions {
		return int64(len(f.subs)), nil
	}
	return int64(len(f.locations[collection])), nil
}

func (f *fakeStore) CountPendingSubmissions(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if !s.Verified && !s.Rejected {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) update(id string, fn func(s *domain.Submission)) error {
	s, ok := f.subs[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&s)
	f.subs[id] = s
	return nil
}

func (f *fakeStore) MarkVerified(ctx context.Context, id, attempt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("MarkVerified"); err != nil {
		return err
	}
	if s, ok := f.subs[id]; ok && s.Rejected {
		return domain.ErrAlreadyReviewed
	}
	return f.update(id, func(s *domain.Submission) {
		if s.ApprovalStage.Reached(domain.StageVerified) {
			return
		}
		s.Verified = true
		s.ApprovalAttempt = attempt
		s.ApprovalStage = domain.StageVerified
	})
}

func (f *fakeStore) LinkTarget(ctx context.Context, id, collection, targetID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("LinkTarget"); err != nil {
		return "", err
	}
	linked := ""
	err := f.update(id, func(s *domain.Submission) {
		if s.PlaceLinked == "" {
			s.PlaceLinked = targetID
			s.TargetCollection = collection
			s.ApprovalStage = domain.StageLinked
		}
		linked = s.PlaceLinked
	})
	return linked, err
}

func (f *fakeStore) UpsertTarget(ctx context.Context, collection, targetID string, record any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpsertTarget"); err != nil {
		return err
	}
	if f.targets[collection] == nil {
		f.targets[collection] = map[string]any{}
	}
	f.targets[collection][targetID] = record
	return nil
}

func (f *fakeStore) UpsertImage(ctx context.Context, img domain.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpsertImage"); err != nil {
		return err
	}
	f.images[img.ID] = img
	return nil
}

func (f *fakeStore) SetApprovalStage(ctx context.Context, id string, stage domain.ApprovalStage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.update(id, func(s *domain.Submission) {
		if !s.ApprovalStage.Reached(stage) {
			s.ApprovalStage = stage
		}
	})
}

func (f *fakeStore) MarkRejected(ctx context.Context, id, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subs[id]; ok && (s.Verified || s.Rejected) {
		return domain.ErrAlreadyReviewed
	}
	return f.update(id, func(s *domain.Submission) {
		s.Rejected = true
		s.RejectionReason = reason
		s.ReviewedAt = &at
	})
}

func (f *fakeStore) DeleteSubmission(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.subs, id)
	return nil
}

func (f *fakeStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.txCalls++
	f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeStore) ListHotels(ctx context.Context, status domain.HotelStatus) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []domain.Hotel{}
	for _, h := range f.hotels {
		if h.Status == status {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeStore) SetHotelStatus(ctx context.Context, id string, status domain.HotelStatus, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return domain.ErrNotFound
	}
	if h.Status != domain.HotelPending && h.Status != status {
		return domain.ErrAlreadyReviewed
	}
	h.Status = status
	h.RejectionReason = reason
	h.ReviewedAt = &at
	f.hotels[id] = h
	return nil
}

func (f *fakeStore) CountHotels(ctx context.Context, status domain.HotelStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, h := range f.hotels {
		if h.Status == status {
			n++
		}
	}
	return n, nil
}

// ---- cache ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// ---- notifier ----

type fakeNotifier struct {
	mu          sync.Mutex
	contributor []domain.Notification
	owners      []domain.Notification
	err         error
}

func (n *fakeNotifier) NotifyContributor(ctx context.Context, m domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.contributor = append(n.contributor, m)
	return nil
}

func (n *fakeNotifier) NotifyHotelOwner(ctx context.Context, m domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.owners = append(n.owners, m)
	return nil
}

// ---- audit log ----

type fakeAudit struct {
	mu  sync.Mutex
	log []domain.Decision
}

func (a *fakeAudit) RecordDecision(ctx context.Context, d domain.Decision) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = append(a.log, d)
	return nil
}

func (a *fakeAudit) ListDecisions(ctx context.Context, entityID string, limit int) ([]domain.Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.Decision
	for _, d := range a.log {
		if d.EntityID == entityID {
			out = append(out, d)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }

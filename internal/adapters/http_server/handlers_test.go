package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "lokvista_admin/internal/adapters/http_server"
	"lokvista_admin/internal/app"
	"lokvista_admin/internal/domain"
)

// ---- fakes ----

type memStore struct {
	mu      sync.Mutex
	subs    map[string]domain.Submission
	targets map[string]any
	hotels  map[string]domain.Hotel
}

func newMemStore() *memStore {
	return &memStore{subs: map[string]domain.Submission{}, targets: map[string]any{}, hotels: map[string]domain.Hotel{}}
}

func (m *memStore) ListLocations(ctx context.Context, c string) ([]domain.Location, error) {
	return []domain.Location{{ID: "p1", Name: "Hawa Mahal", City: "Jaipur", State: "Rajasthan"}}, nil
}
func (m *memStore) FirstImageForPlace(ctx context.Context, id string) (string, bool, error) {
	return "", false, nil
}
func (m *memStore) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Submission{}
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out, nil
}
func (m *memStore) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return domain.Submission{}, domain.ErrNotFound
	}
	return s, nil
}
func (m *memStore) ListSubmissionImages(ctx context.Context, id string) ([]domain.SubmissionImage, error) {
	return nil, nil
}
func (m *memStore) ListStuckApprovals(ctx context.Context, limit int) ([]domain.Submission, error) {
	return nil, nil
}
func (m *memStore) Count(ctx context.Context, c string) (int64, error) { return 1, nil }
func (m *memStore) CountPendingSubmissions(ctx context.Context) (int64, error) {
	return 0, nil
}
func (m *memStore) mutate(id string, fn func(*domain.Submission)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&s)
	m.subs[id] = s
	return nil
}
func (m *memStore) MarkVerified(ctx context.Context, id, attempt string) error {
	return m.mutate(id, func(s *domain.Submission) { s.Verified = true; s.ApprovalStage = domain.StageVerified })
}
func (m *memStore) LinkTarget(ctx context.Context, id, c, t string) (string, error) {
	linked := ""
	err := m.mutate(id, func(s *domain.Submission) {
		if s.PlaceLinked == "" {
			s.PlaceLinked, s.ApprovalStage = t, domain.StageLinked
		}
		linked = s.PlaceLinked
	})
	return linked, err
}
func (m *memStore) UpsertTarget(ctx context.Context, c, t string, rec any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[c+"/"+t] = rec
	return nil
}
func (m *memStore) UpsertImage(ctx context.Context, img domain.Image) error { return nil }
func (m *memStore) SetApprovalStage(ctx context.Context, id string, st domain.ApprovalStage) error {
	return m.mutate(id, func(s *domain.Submission) { s.ApprovalStage = st })
}
func (m *memStore) MarkRejected(ctx context.Context, id, reason string, at time.Time) error {
	return m.mutate(id, func(s *domain.Submission) { s.Rejected = true; s.RejectionReason = reason })
}
func (m *memStore) DeleteSubmission(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
	return nil
}
func (m *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (m *memStore) ListHotels(ctx context.Context, st domain.HotelStatus) ([]domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Hotel{}
	for _, h := range m.hotels {
		if h.Status == st {
			out = append(out, h)
		}
	}
	return out, nil
}
func (m *memStore) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}
func (m *memStore) SetHotelStatus(ctx context.Context, id string, st domain.HotelStatus, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.hotels[id]
	if h.Status != domain.HotelPending && h.Status != st {
		return domain.ErrAlreadyReviewed
	}
	h.Status, h.RejectionReason = st, reason
	m.hotels[id] = h
	return nil
}
func (m *memStore) CountHotels(ctx context.Context, st domain.HotelStatus) (int64, error) {
	return 0, nil
}

type recNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *recNotifier) NotifyContributor(ctx context.Context, m domain.Notification) error {
	return n.record(m)
}
func (n *recNotifier) NotifyHotelOwner(ctx context.Context, m domain.Notification) error {
	return n.record(m)
}
func (n *recNotifier) record(m domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, m)
	return nil
}

type memAudit struct {
	mu  sync.Mutex
	log []domain.Decision
}

func (a *memAudit) RecordDecision(ctx context.Context, d domain.Decision) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log = append(a.log, d)
	return nil
}
func (a *memAudit) ListDecisions(ctx context.Context, id string, limit int) ([]domain.Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Decision{}, a.log...), nil
}

// ---- harness ----

type harness struct {
	store    *memStore
	notifier *recNotifier
	audit    *memAudit
	srv      http.Handler
}

func newHarness(t *testing.T, secret string) *harness {
	t.Helper()
	st := newMemStore()
	n := &recNotifier{}
	audit := &memAudit{}
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Q:          app.NewQueryService(st, st, nil, 0, 2),
		Review:     app.NewReviewService(st, n, audit, nil),
		Hotels:     app.NewHotelService(st, n, audit, nil),
		Desc:       app.NewDescriptionService(nil),
		Dispatcher: n,
		Audit:      audit,
	}, httpserver.Auth([]byte(secret)))
	return &harness{store: st, notifier: n, audit: audit, srv: srv.Mux()}
}

func (h *harness) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	h.srv.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

// ---- tests ----

func TestHealthz(t *testing.T) {
	h := newHarness(t, "")
	rr := h.do("GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestContributorEmail_Validation(t *testing.T) {
	h := newHarness(t, "")
	for _, body := range []string{
		`{"placeName":"Chand Baori","status":true}`,
		`{"to":"","placeName":"Chand Baori","status":true}`,
		`{"to":"a@example.com","status":true}`,
		`{"to":"a@example.com","placeName":"Chand Baori"}`,
		`not json`,
	} {
		rr := h.do("POST", "/api/contributor/email", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "Missing required fields: to, placeName, status", decode(t, rr)["error"])
	}
	assert.Empty(t, h.notifier.sent, "nothing is sent for invalid requests")
}

func TestContributorEmail_Sends(t *testing.T) {
	h := newHarness(t, "")
	rr := h.do("POST", "/api/contributor/email", `{"to":"a@example.com","placeName":"Chand Baori","status":false,"reason":"Blurry"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	out := decode(t, rr)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Email sent successfully", out["message"])
	require.Len(t, h.notifier.sent, 1)
	assert.Equal(t, domain.Notification{To: "a@example.com", EntityName: "Chand Baori", Reason: "Blurry"}, h.notifier.sent[0])
}

func TestHotelEmail_TransportFailure(t *testing.T) {
	h := newHarness(t, "")
	h.notifier.err = errors.New("535 auth failed")

	rr := h.do("POST", "/api/hotel/email", `{"to":"o@example.com","hotelName":"Inn","status":true}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	out := decode(t, rr)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "535 auth failed", out["error"])

	rr = h.do("POST", "/api/hotel/email", `{"hotelName":"Inn","status":true}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing required fields: to, hotelName, status", decode(t, rr)["error"])
}

func TestSubmissionWorkflow(t *testing.T) {
	h := newHarness(t, "")
	h.store.subs["s1"] = domain.Submission{Location: domain.Location{ID: "s1", Name: "Chand Baori"}, Area: "tourist", UserEmail: "a@example.com"}

	rr := h.do("DELETE", "/v1/submissions/s1?confirm=true", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = h.do("POST", "/v1/submissions/s1/approve", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	out := decode(t, rr)
	assert.Equal(t, domain.CollTouristPlaces, out["targetCollection"])
	assert.Equal(t, true, out["notified"])

	rr = h.do("POST", "/v1/submissions/s1/approve", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = h.do("POST", "/v1/submissions/s1/reject", `{"reason":"late"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = h.do("DELETE", "/v1/submissions/s1", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do("DELETE", "/v1/submissions/s1?confirm=true", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = h.do("GET", "/v1/submissions/s1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRejectSubmission_RequiresReason(t *testing.T) {
	h := newHarness(t, "")
	h.store.subs["s1"] = domain.Submission{Location: domain.Location{ID: "s1"}}

	rr := h.do("POST", "/v1/submissions/s1/reject", `{"reason":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, h.store.subs["s1"].Rejected)

	rr = h.do("POST", "/v1/submissions/s1/reject", `{"reason":"Duplicate"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, h.store.subs["s1"].Rejected)
	assert.False(t, h.store.subs["s1"].Verified)

	rr = h.do("POST", "/v1/submissions/s1/reject", `{"reason":"Spam"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Duplicate", h.store.subs["s1"].RejectionReason)
}

func TestHotels(t *testing.T) {
	h := newHarness(t, "")
	h.store.hotels["h1"] = domain.Hotel{ID: "h1", BasicInfo: domain.HotelBasicInfo{Name: "Inn"}, OwnerInfo: domain.HotelOwnerInfo{Email: "o@example.com"}}

	rr := h.do("GET", "/v1/hotels?status=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do("GET", "/v1/hotels", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0]["status"])

	rr = h.do("POST", "/v1/hotels/h1/reject", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do("POST", "/v1/hotels/h1/approve", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "approved", decode(t, rr)["status"])

	rr = h.do("POST", "/v1/hotels/h1/reject", `{"reason":"nope"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = h.do("POST", "/v1/hotels/missing/approve", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListTouristPlaces_ETag(t *testing.T) {
	h := newHarness(t, "")
	rr := h.do("GET", "/v1/tourist-places?city=jaipur", "")
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var list []domain.Location
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, domain.PlaceholderImageURL, list[0].ImageURL)

	rr = h.do("GET", "/v1/tourist-places?city=jaipur", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestDescriptions_Unavailable(t *testing.T) {
	h := newHarness(t, "")
	rr := h.do("POST", "/v1/descriptions", `{"coordinates":"1,2","landmarks":"x","infrastructure":"y"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = h.do("POST", "/v1/descriptions", `{"coordinates":"1,2"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	h := newHarness(t, "s3cret")
	h.store.subs["s1"] = domain.Submission{Location: domain.Location{ID: "s1"}}

	rr := h.do("GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code, "health stays public")

	rr = h.do("GET", "/v1/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	bad := sign(t, "other", jwt.MapClaims{"sub": "admin@example.com"})
	rr = h.do("GET", "/v1/dashboard", "", "Authorization", "Bearer "+bad)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	expired := sign(t, "s3cret", jwt.MapClaims{"sub": "admin@example.com", "exp": time.Now().Add(-time.Hour).Unix()})
	rr = h.do("GET", "/v1/dashboard", "", "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	tok := sign(t, "s3cret", jwt.MapClaims{"sub": "admin@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	rr = h.do("POST", "/v1/submissions/s1/reject", `{"reason":"Duplicate"}`, "Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, h.audit.log, 1)
	assert.Equal(t, "admin@example.com", h.audit.log[0].Actor)

	rr = h.do("GET", "/v1/decisions?entity_id=s1", "", "Authorization", "Bearer "+tok)
	require.Equal(t, http.StatusOK, rr.Code)
}

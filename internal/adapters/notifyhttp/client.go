package notifyhttp

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"lokvista_admin/internal/adapters/observability"
	"lokvista_admin/internal/domain"
)

const (
	contributorPath = "/api/contributor/email"
	hotelPath       = "/api/hotel/email"
)

// Client calls a remote notification dispatcher over HTTP and implements
// domain.Notifier.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, errors.New("notifyhttp: base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 20 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type contributorRequest struct {
	To        string `json:"to"`
	PlaceName string `json:"placeName"`
	Status    bool   `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type hotelRequest struct {
	To        string `json:"to"`
	HotelName string `json:"hotelName"`
	Status    bool   `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Response is the dispatcher's JSON reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) NotifyContributor(ctx context.Context, n domain.Notification) error {
	return c.post(ctx, contributorPath, contributorRequest{To: n.To, PlaceName: n.EntityName, Status: n.Approved, Reason: n.Reason})
}

func (c *Client) NotifyHotelOwner(ctx context.Context, n domain.Notification) error {
	return c.post(ctx, hotelPath, hotelRequest{To: n.To, HotelName: n.EntityName, Status: n.Approved, Reason: n.Reason})
}

// ---- Internals ----

var (
	ErrRejected     = errors.New("notify: request rejected")
	ErrUnauthorized = errors.New("notify: unauthorized")
)

// post sends body with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided.
func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "lokvista-admin/1.0")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("notify", path, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("notify", path, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusAccepted:
			var out Response
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode notify response: %w", err)
			}
			if !out.Success {
				return fmt.Errorf("%w: %s", ErrRejected, out.Error)
			}
			return nil

		case http.StatusBadRequest:
			msg := errorBody(resp)
			return fmt.Errorf("%w: %s", ErrRejected, msg)

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			msg := errorBody(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("notify %d: %s", resp.StatusCode, msg)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			msg := errorBody(resp)
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, msg)
		}
	}
	return lastErr
}

// errorBody reads the dispatcher's error message and closes the body.
func errorBody(resp *http.Response) string {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var r Response
	if json.Unmarshal(b, &r) == nil && r.Error != "" {
		return r.Error
	}
	return strings.TrimSpace(string(b))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 200ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apiruns "github.com/kevintatou/sparktest/pkg/api/types/runs"
	cfg_hook "github.com/kevintatou/sparktest/pkg/configs/hook"
)

// DefaultTimeout limits each request of webhooks.
const DefaultTimeout = 30 * time.Second

// Web is a webhook for before/after hooks.
//
// The value T is POSTed as JSON to each URL in order.
// If and only if all of the URLs respond 2xx, the hook succeeds.
// It stops at the first failure.
type Web[T any, R any] struct {
	BeforeURL []*url.URL
	AfterURL  []*url.URL

	// Merge combines JSON responses of BeforeURL. When it is nil, the last one wins.
	Merge func(a, b R) R

	// Client sends requests. When it is nil, a client with DefaultTimeout is used.
	Client *http.Client
}

// Build makes a webhook for runs from config.
func Build(cfg cfg_hook.WebHook) Web[apiruns.Detail, struct{}] {
	return Web[apiruns.Detail, struct{}]{
		BeforeURL: cfg.Before,
		AfterURL:  cfg.After,
		Merge:     func(struct{}, struct{}) struct{} { return struct{}{} },
	}
}

func (w Web[T, R]) client() *http.Client {
	if w.Client != nil {
		return w.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (w Web[T, R]) sendRequest(ctx context.Context, url string, payload []byte) (R, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return *new(R), fmt.Errorf("%w: %w", ErrHookFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client().Do(req)
	if err != nil {
		return *new(R), fmt.Errorf("%w: %w", ErrHookFailed, err)
	}
	defer resp.Body.Close()

	ctype := resp.Header.Get("Content-Type")
	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		if strings.HasPrefix(ctype, "application/json") {
			r := new(R)
			if err := json.NewDecoder(resp.Body).Decode(r); err != nil && err != io.EOF {
				return *new(R), fmt.Errorf("%w: %s: %w", ErrHookFailed, url, err)
			}
			return *r, nil
		}
		return *new(R), nil
	}

	if !strings.HasPrefix(ctype, "text/") && !(strings.HasPrefix(ctype, "application/") && strings.Contains(ctype, "json")) {
		return *new(R), fmt.Errorf(
			"%w (%s %d, Content-Type: %s)",
			ErrHookFailed, url, resp.StatusCode, ctype,
		)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return *new(R), fmt.Errorf(
		"%w (%s %d, Content-Type: %s): %s",
		ErrHookFailed, url, resp.StatusCode, ctype, string(body),
	)
}

func (w Web[T, R]) hook(ctx context.Context, value T, urls []*url.URL) (R, error) {
	if len(urls) == 0 {
		return *new(R), nil
	}

	buf, err := json.Marshal(value)
	if err != nil {
		return *new(R), err
	}

	var resp R
	for nth, u := range urls {
		r, err := w.sendRequest(ctx, u.String(), buf)
		if err != nil {
			return *new(R), err
		}
		if nth == 0 || w.Merge == nil {
			resp = r
		} else {
			resp = w.Merge(resp, r)
		}
	}
	return resp, nil
}

func (w Web[T, R]) Before(ctx context.Context, value T) (R, error) {
	return w.hook(ctx, value, w.BeforeURL)
}

func (w Web[T, R]) After(ctx context.Context, value T) error {
	_, err := w.hook(ctx, value, w.AfterURL)
	return err
}

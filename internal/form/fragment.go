package form

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SwapStyle says how a fragment response replaces its target.
type SwapStyle string

const (
	SwapOuterHTML SwapStyle = "outerHTML"
	SwapInnerHTML SwapStyle = "innerHTML"
)

// FragmentRequest asks for a server-rendered fragment to be swapped into the
// element with id Target.
type FragmentRequest struct {
	Method string
	URL    string
	Target string
	Swap   SwapStyle
}

// FragmentLoader performs fragment requests. Load must return without waiting
// for the response.
type FragmentLoader interface {
	Load(ctx context.Context, req FragmentRequest)
}

const maxFragmentSize = 4 << 20

// HTTPLoader fetches fragments over HTTP and swaps them into a Document.
// Failed requests are logged and dropped. Requests are neither retried,
// cancelled nor de-duplicated; the last response for a target wins.
type HTTPLoader struct {
	client *http.Client
	base   *url.URL
	doc    *Document
	logger zerolog.Logger

	mu   sync.Mutex
	hook func()

	wg sync.WaitGroup
}

// LoaderOption configures an HTTPLoader.
type LoaderOption func(*HTTPLoader)

// WithHTTPClient sets the client used for fragment requests.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *HTTPLoader) {
		l.client = c
	}
}

// WithLoaderLogger sets the logger for failed loads.
func WithLoaderLogger(logger zerolog.Logger) LoaderOption {
	return func(l *HTTPLoader) {
		l.logger = logger
	}
}

// NewHTTPLoader creates a loader that resolves relative fragment URLs against
// base and swaps responses into doc.
func NewHTTPLoader(doc *Document, base *url.URL, opts ...LoaderOption) *HTTPLoader {
	l := &HTTPLoader{
		client: &http.Client{Timeout: 30 * time.Second},
		base:   base,
		doc:    doc,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetHook sets the function called after every successful swap, normally
// Controller.Initialize, so new rows get bound and totals recomputed.
func (l *HTTPLoader) SetHook(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.hook = fn
}

// Load starts the request in the background.
func (l *HTTPLoader) Load(ctx context.Context, req FragmentRequest) {
	ctx = context.WithoutCancel(ctx)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		if err := l.fetch(ctx, req); err != nil {
			l.logger.Warn().
				Err(err).
				Str("url", req.URL).
				Str("target", req.Target).
				Msg("fragment load failed")
			return
		}

		l.mu.Lock()
		hook := l.hook
		l.mu.Unlock()

		if hook != nil {
			hook()
		}
	}()
}

// Wait blocks until every started load has finished.
func (l *HTTPLoader) Wait() {
	l.wg.Wait()
}

func (l *HTTPLoader) fetch(ctx context.Context, req FragmentRequest) error {
	target, err := l.resolve(req.URL)
	if err != nil {
		return err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("HX-Request", "true")
	httpReq.Header.Set("HX-Target", req.Target)

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFragmentSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	return l.doc.Swap(req.Target, string(body), req.Swap)
}

func (l *HTTPLoader) resolve(raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid fragment URL %q: %w", raw, err)
	}
	if l.base == nil {
		return ref.String(), nil
	}
	return l.base.ResolveReference(ref).String(), nil
}

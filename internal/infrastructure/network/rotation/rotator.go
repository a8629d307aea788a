package rotation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
)

var (
	ErrNoEndpoints        = errors.New("no rpc endpoints configured")
	ErrAllEndpointsFailed = errors.New("all rpc endpoints failed")
)

// State is the rotation state: the ordered endpoint list and the index of the active one.
type State struct {
	Index     int
	Endpoints []string
}

// Current returns the active endpoint, or "" when there are none.
func (s State) Current() string {
	if len(s.Endpoints) == 0 {
		return ""
	}
	return s.Endpoints[s.Index%len(s.Endpoints)]
}

// Advance returns the state pointing at the next endpoint, wrapping around.
func (s State) Advance() State {
	if len(s.Endpoints) == 0 {
		return s
	}
	return State{Index: (s.Index + 1) % len(s.Endpoints), Endpoints: s.Endpoints}
}

// Selector hands out the active endpoint and moves past failing ones.
type Selector interface {
	Current() string
	// Advance moves to the next endpoint if failed is still the active one.
	Advance(failed string)
	Len() int
}

// EndpointRotator is a concurrency safe Selector over a fixed endpoint list.
type EndpointRotator struct {
	mu       sync.Mutex
	state    State
	onRotate func(from, to string)
}

// Option configures an EndpointRotator.
type Option func(*EndpointRotator)

// WithOnRotate registers a callback invoked after every rotation.
func WithOnRotate(fn func(from, to string)) Option {
	return func(r *EndpointRotator) {
		r.onRotate = fn
	}
}

// NewEndpointRotator creates a rotator starting at the first endpoint.
func NewEndpointRotator(endpoints []string, opts ...Option) (*EndpointRotator, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	r := &EndpointRotator{
		state: State{Endpoints: append([]string(nil), endpoints...)},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *EndpointRotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Current()
}

func (r *EndpointRotator) Advance(failed string) {
	r.mu.Lock()
	// another caller may already have rotated away from failed
	if r.state.Current() != failed {
		r.mu.Unlock()
		return
	}
	r.state = r.state.Advance()
	next := r.state.Current()
	r.mu.Unlock()

	if r.onRotate != nil {
		r.onRotate(failed, next)
	}
}

func (r *EndpointRotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.state.Endpoints)
}

// Snapshot returns a copy of the current state.
func (r *EndpointRotator) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{Index: r.state.Index, Endpoints: append([]string(nil), r.state.Endpoints...)}
}

// WithRetry runs op against the active endpoint and rotates on failure, trying every
// endpoint at most once. A cancelled context stops the loop.
func WithRetry[T any](ctx context.Context, sel Selector, op func(ctx context.Context, endpoint string) (T, error)) (T, error) {
	var zero T
	attempts := sel.Len()
	if attempts == 0 {
		return zero, ErrNoEndpoints
	}

	errs := make([]error, 0, attempts)
	for i := 0; i < attempts; i++ {
		endpoint := sel.Current()
		result, err := op(ctx, endpoint)
		if err == nil {
			return result, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", Redact(endpoint), err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, fmt.Errorf("rpc call aborted: %w", errors.Join(append(errs, ctxErr)...))
		}
		sel.Advance(endpoint)
	}
	return zero, fmt.Errorf("%w: %w", ErrAllEndpointsFailed, errors.Join(errs...))
}

// Redact strips credentials and query parameters (api keys) from an endpoint URL.
func Redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Scheme + "://" + u.Host + u.Path
}

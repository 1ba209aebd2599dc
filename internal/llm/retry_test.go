package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// newTestRetry returns a retry decorator whose sleeps are recorded, not taken.
func newTestRetry(inner Provider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, cfg, nil).(*RetryProvider)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", []MockResponse{JSONResponse(map[string]bool{"ok": true})}, 1, false},
		{"transient then success", []MockResponse{down(), JSONResponse(map[string]bool{"ok": true})}, 2, false},
		{"all attempts fail", []MockResponse{down(), down(), down(), down()}, 3, true},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}}, 1, true},
		{"invalid response retried once", []MockResponse{
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			{Err: &ErrInvalidResponse{Err: errors.New("bad")}},
			JSONResponse(map[string]bool{"ok": true}),
		}, 2, true},
		{"canceled not retried", []MockResponse{{Err: context.Canceled}}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p, _ := newTestRetry(mock, retryConfig())

			_, err := p.Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancellationStopsBackoff(t *testing.T) {
	mock := NewMockProvider(down(), down(), down())
	p, _ := newTestRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}},
		JSONResponse(map[string]bool{"ok": true}),
	)
	p, waits := newTestRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 3*time.Second {
		t.Errorf("waits = %v, want [3s]", *waits)
	}
}

func TestRetry_BackoffCappedWithJitter(t *testing.T) {
	r, _ := newTestRetry(NewMockProvider(), retryConfig())
	for attempt := range 6 {
		w := r.backoff(attempt, errors.New("x"))
		if w < 0 || w > 12*time.Millisecond {
			t.Errorf("backoff(%d) = %v, outside [0, MaxWait+20%%]", attempt, w)
		}
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(down())
	p, _ := newTestRetry(mock, RetryConfig{})
	_, _ = p.Generate(context.Background(), Request{})
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q, want mock", p.ModelID())
	}
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/rtclient/artifactory"
)

func fastConfig(retries uint64) Config {
	cfg := DefaultConfig()
	cfg.MaxInterval = time.Millisecond
	cfg.MaxElapsedTime = time.Second
	cfg.MaxRetries = retries
	return cfg
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"server error", &artifactory.APIError{StatusCode: 503}, true},
		{"rate limited", &artifactory.APIError{StatusCode: 429}, true},
		{"not found", &artifactory.APIError{StatusCode: 404}, false},
		{"malformed server error", &artifactory.MalformedError{StatusCode: 502}, true},
		{"malformed client error", &artifactory.MalformedError{StatusCode: 400}, false},
		{"precondition", &artifactory.PreconditionError{Message: "x"}, false},
		{"settings", &artifactory.ConfigurationError{Message: "x"}, false},
		{"canceled", fmt.Errorf("call: %w", context.Canceled), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			io.WriteString(w, `{"errors": [{"status": 503, "message": "Service Unavailable"}]}`)
			return
		}
		io.WriteString(w, "OK")
	}))
	defer server.Close()

	client, err := artifactory.NewFromMap(map[string]any{
		artifactory.KeyURL:    server.URL,
		artifactory.KeyAPIKey: "k",
	})
	require.NoError(t, err)

	result, err := Do(context.Background(), fastConfig(5), func(ctx context.Context) (*artifactory.Result, error) {
		return client.Call(ctx)
	})
	require.NoError(t, err)
	assert.Equal(t, "OK", result.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoStopsOnPermanentError(t *testing.T) {
	var calls int
	notFound := &artifactory.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"}

	_, err := Do(context.Background(), fastConfig(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, notFound
	})
	require.Error(t, err)
	assert.Same(t, notFound, err)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUp(t *testing.T) {
	var calls int
	_, err := Do(context.Background(), fastConfig(2), func(ctx context.Context) (string, error) {
		calls++
		return "", &artifactory.APIError{StatusCode: http.StatusBadGateway}
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoWithoutRetries(t *testing.T) {
	var calls int
	_, err := Do(context.Background(), fastConfig(0), func(ctx context.Context) (string, error) {
		calls++
		return "", &artifactory.APIError{StatusCode: http.StatusBadGateway}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

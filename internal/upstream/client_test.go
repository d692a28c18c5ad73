package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	codes []int
}

func (o *recordingObserver) ObserveUpstream(_, _ string, code int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes = append(o.codes, code)
}

func TestJSONDecodesExpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/PAY-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"PAY-1","status":"completed"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New("payment", srv.URL+"/", WithObserver(obs))
	var out map[string]any
	require.NoError(t, c.JSON(context.Background(), http.MethodGet, "/payments/PAY-1", nil, http.StatusOK, &out))
	assert.Equal(t, "completed", out["status"])
	assert.Equal(t, []int{200}, obs.codes)
}

func TestJSONStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no payment with that id"}`))
	}))
	defer srv.Close()

	err := New("payment", srv.URL).JSON(context.Background(), http.MethodGet, "/payments/x", nil, http.StatusOK, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "no payment with that id", se.Body)
}

func TestDoPassesThroughClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "customer_id=C1", r.URL.RawQuery)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	}))
	defer srv.Close()

	resp, err := New("payment", srv.URL).Do(context.Background(), http.MethodGet, "/payments", map[string][]string{"customer_id": {"C1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"bad"}`, string(resp.Body))
}

func TestServerErrorsTripBreaker(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := resilience.NewBreaker("shipping", resilience.WithFailureThreshold(2))
	c := New("shipping", srv.URL, WithBreaker(b))

	for i := 0; i < 2; i++ {
		resp, err := c.Do(context.Background(), http.MethodGet, "/shipping/1", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	require.Equal(t, resilience.StateOpen, b.State())

	_, err := c.Do(context.Background(), http.MethodGet, "/shipping/1", nil, nil)
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.ErrorIs(t, err, resilience.ErrBreakerOpen)
	assert.Equal(t, 2, calls)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New("inventory", srv.URL, WithTimeout(50*time.Millisecond)).Health(context.Background())
	var ue *UnavailableError
	require.ErrorAs(t, err, &ue)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "cannot reach inventory service")
}

package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jlrickert/pickup/pkg/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(srv *httptest.Server, retries int) *fetch.Client {
	c := fetch.New()
	c.HTTPClient = srv.Client()
	c.Retries = retries
	c.Delay = 0
	return c
}

func TestFetchSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	body, err := newClient(srv, 10).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
}

func TestFetchSucceedsOnFinalAttempt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 10 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	body, err := newClient(srv, 10).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), body)
	assert.Equal(t, int32(10), calls.Load())
}

func TestFetchExhaustsExactlyRetriesAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(srv, 10)
	var retried int
	c.OnRetry = func(string) { retried++ }

	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(10), calls.Load(), "exactly retries attempts, never more")
	assert.Equal(t, 9, retried)

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fetch.KindHTTP, fe.Kind)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestFetchSingleAttemptBudget(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newClient(srv, 1).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchClassifiesNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newClient(srv, 2).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, fetch.IsNotFound(err))
}

func TestFetchClassifiesConnectionError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listens here anymore

	c := fetch.New()
	c.Retries = 2
	c.Delay = 0

	_, err := c.Fetch(context.Background(), url)
	require.Error(t, err)

	var fe *fetch.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fetch.KindConnection, fe.Kind)
	assert.False(t, fetch.IsNotFound(err))
}

func TestFetchStopsWhenContextCanceled(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := newClient(srv, 10)
	c.Delay = fetch.DefaultDelay
	c.OnRetry = func(string) { cancel() }

	_, err := c.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

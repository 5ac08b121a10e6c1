package prompt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modekit/modekit/pkg/prompt"
)

func TestHTTPFetcherOK(t *testing.T) {
	payload := "---\ndescription: d\n---\nbody\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	f := prompt.NewHTTPFetcher(srv.Client())
	data, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := prompt.NewHTTPFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrFetchFailed)

	var fe *prompt.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, srv.URL, fe.URL)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := prompt.NewHTTPFetcher(srv.Client())
	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrFetchTimeout)
}

func TestHTTPFetcherInvalidURL(t *testing.T) {
	f := prompt.NewHTTPFetcher(nil)
	_, err := f.Fetch(context.Background(), "not a url")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrFetchFailed)
}

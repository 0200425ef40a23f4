package jokes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchSingleJoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":false,"type":"single","joke":"A joke."}`))
	}))
	defer server.Close()

	joke, err := New(server.URL, time.Second, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A joke.", joke)
}

func TestFetchTwoPartJoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":false,"type":"twopart","setup":"Setup?","delivery":"Punchline."}`))
	}))
	defer server.Close()

	joke, err := New(server.URL, time.Second, nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Setup? Punchline.", joke)
}

func TestFetchSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":true,"message":"no jokes in category"}`))
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second, nil).Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no jokes in category")
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second, nil).Fetch(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
}

func TestTellFallsBackWhenEndpointUnreachable(t *testing.T) {
	joke := New("http://127.0.0.1:1/joke", 100*time.Millisecond, nil).Tell(context.Background())
	require.Contains(t, fallbackJokes, joke)
}

func TestTellFallsBackWithoutEndpoint(t *testing.T) {
	joke := New("", time.Second, nil).Tell(context.Background())
	require.Contains(t, fallbackJokes, joke)
}

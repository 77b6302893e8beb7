package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchParsesArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/everything", r.URL.Path)
		assert.Equal(t, "ai", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{"status":"ok","articles":[{"title":"AI news","url":"https://example.com/a","source":{"name":"Example"}}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	articles, err := client.Search(context.Background(), "ai", 10)

	assert.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, "AI news", articles[0].Title)
	assert.Equal(t, "Example", articles[0].Source.Name)
}

func TestSearchFallsBackToTopHeadlinesOn426(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/everything" {
			w.WriteHeader(http.StatusUpgradeRequired)
			return
		}
		assert.Equal(t, "/top-headlines", r.URL.Path)
		w.Write([]byte(`{"status":"ok","articles":[{"title":"Headline"}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key").WithBaseURL(srv.URL)
	articles, err := client.Search(context.Background(), "ai", 10)

	assert.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, "Headline", articles[0].Title)
}

func TestTypedErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrInvalidKey},
		{http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		}))
		client := NewClient("test-key").WithBaseURL(srv.URL)
		_, err := client.TopHeadlines(context.Background(), "ai", 10)
		assert.True(t, errors.Is(err, c.want), "status %d", c.status)
		srv.Close()
	}
}

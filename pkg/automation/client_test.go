package automation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerPublishSendsPayload(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Dispatch-ID"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.TriggerPublish(context.Background(), PublishPayload{
		ContentID:        42,
		Name:             "Launch post",
		FacebookPost:     "hello fb",
		PublishPlatforms: []string{"facebook", "twitter"},
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(42), received["contentId"])
	assert.Equal(t, "Launch post", received["name"])
	assert.NotEmpty(t, received["timestamp"])
	assert.Equal(t, []interface{}{"facebook", "twitter"}, received["publishPlatforms"])
}

func TestTriggerPublishNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.TriggerPublish(context.Background(), PublishPayload{ContentID: 1})

	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestTriggerPublishUnreachableIsTransportError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	err := client.TriggerPublish(context.Background(), PublishPayload{ContentID: 1})

	var te *TransportError
	assert.True(t, errors.As(err, &te))
}

func TestTriggerPublishUnconfigured(t *testing.T) {
	client := NewClient("", time.Second)
	err := client.TriggerPublish(context.Background(), PublishPayload{ContentID: 1})

	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.False(t, client.Configured())
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	assert.Equal(t, "ab", sanitize("a\x00\x08b"))
	assert.Equal(t, "a\nb\tc", sanitize("a\nb\tc"))
	assert.Equal(t, "caption", sanitize("caption\x7f"))
}

package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_SendsMeasurementEvent(t *testing.T) {
	var received eventPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "mid-1", r.URL.Query().Get("measurement_id"))
		assert.Equal(t, "secret-1", r.URL.Query().Get("api_secret"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.Client(), "mid-1", "secret-1")
	c.endpoint = server.URL

	require.NoError(t, c.post(context.Background(), "boleta-export", "download"))

	assert.NotEmpty(t, received.ClientID)
	require.Len(t, received.Events, 1)
	assert.Equal(t, "boleta_event", received.Events[0].Name)
	assert.Equal(t, "boleta-export", received.Events[0].Params["event_category"])
	assert.Equal(t, "download", received.Events[0].Params["event_action"])
}

func TestPost_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.Client(), "mid-1", "secret-1")
	c.endpoint = server.URL

	err := c.post(context.Background(), "boleta-export", "download")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestEvent_DisabledWithoutCredentials(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := New(server.Client(), "", "")
	c.endpoint = server.URL

	c.Event("boleta-export", "download")
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, hits.Load())
}

func TestEvent_FiresAsynchronously(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(done)
	}))
	defer server.Close()

	c := New(server.Client(), "mid-1", "secret-1")
	c.endpoint = server.URL

	c.Event("boleta-export", "stamp:perfect")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the collect endpoint")
	}
}

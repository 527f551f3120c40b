package vlm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	t.Run("single complete response", func(t *testing.T) {
		var gotReq GenerateRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/generate", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			_ = json.NewEncoder(w).Encode(GenerateResponse{
				Model:         "llava",
				Response:      "BUTTON 1:\nText: \"OK\"\nPosition: (50,50)",
				Done:          true,
				TotalDuration: int64(2 * time.Second),
				EvalCount:     42,
			})
		}))
		defer server.Close()

		client := NewClient(server.URL, "llava", 5*time.Second)
		records, err := client.Generate(context.Background(), "find buttons", "aW1hZ2U=")
		require.NoError(t, err)
		require.Len(t, records, 1)

		assert.True(t, records[0].Done)
		assert.Equal(t, 42, records[0].EvalCount)
		assert.Equal(t, 2*time.Second, records[0].Duration())

		assert.Equal(t, "llava", gotReq.Model)
		assert.Equal(t, "find buttons", gotReq.Prompt)
		assert.False(t, gotReq.Stream)
		assert.Equal(t, []string{"aW1hZ2U="}, gotReq.Images)
	})

	t.Run("chunked payload yields every record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"response":"BUTTON","done":false}` + "\n" +
				`{"response":"BUTTON 1:\nText: \"A\"\nPosition: (1, 2)","done":true}` + "\n"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "llava", 5*time.Second)
		records, err := client.Generate(context.Background(), "find buttons")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.False(t, records[0].Done)
		assert.True(t, records[1].Done)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "missing", 5*time.Second)
		_, err := client.Generate(context.Background(), "find buttons")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("undecodable payload is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := NewClient(server.URL, "llava", 5*time.Second)
		_, err := client.Generate(context.Background(), "find buttons")
		assert.Error(t, err)
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "llava", 500*time.Millisecond)
		_, err := client.Generate(context.Background(), "find buttons")
		assert.Error(t, err)
	})
}

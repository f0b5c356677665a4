// internal/deepl/client_test.go
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Translate(t *testing.T) {
	t.Run("translates text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v2/translate", r.URL.Path)
			assert.Equal(t, "DeepL-Auth-Key test-key", r.Header.Get("Authorization"))

			var body translateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []string{"Open source newsroom tools"}, body.Text)
			assert.Equal(t, "NB", body.TargetLang)

			fmt.Fprintln(w, `{"translations": [{"detected_source_language": "EN", "text": "Verktøy for åpne redaksjoner"}]}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key")
		got, err := client.Translate(context.Background(), "Open source newsroom tools", "NB")

		require.NoError(t, err)
		assert.Equal(t, "Verktøy for åpne redaksjoner", got)
	})

	t.Run("fails on API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintln(w, `{"message": "Authorization failed"}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "bad-key")
		_, err := client.Translate(context.Background(), "hello", "NB")

		assert.Error(t, err)
	})

	t.Run("fails on empty translations", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintln(w, `{"translations": []}`)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key")
		_, err := client.Translate(context.Background(), "hello", "NB")

		assert.Error(t, err)
	})
}

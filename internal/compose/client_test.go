package compose

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func TestGenerateDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		prompt, _ := payload["inputs"].(string)
		assert.Contains(t, prompt, "Job Title: Staff Engineer")
		assert.Contains(t, prompt, "Resume Summary: 8 years of backend work")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"generated_text": "  Hi, I noticed you are hiring...  "}]`))
	}))
	defer srv.Close()

	c := newClientForTest(srv.URL, "test-model", srv.Client())
	draft, err := c.GenerateDraft(context.Background(), DraftRequest{
		JobTitle:      "Staff Engineer",
		ResumeSummary: "8 years of backend work",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi, I noticed you are hiring...", draft.Content)
}

func TestGenerateDraftRequiresBothFields(t *testing.T) {
	c := newClientForTest("http://unused", "m", http.DefaultClient)

	_, err := c.GenerateDraft(context.Background(), DraftRequest{ResumeSummary: "infra background"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = c.GenerateDraft(context.Background(), DraftRequest{JobTitle: "SRE"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = c.GenerateDraft(context.Background(), DraftRequest{JobTitle: "  ", ResumeSummary: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateDraftUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newClientForTest(srv.URL, "m", srv.Client())
	_, err := c.GenerateDraft(context.Background(), DraftRequest{JobTitle: "SRE", ResumeSummary: "infra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerateDraftEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newClientForTest(srv.URL, "m", srv.Client())
	_, err := c.GenerateDraft(context.Background(), DraftRequest{JobTitle: "SRE", ResumeSummary: "infra"})
	assert.Error(t, err)
}

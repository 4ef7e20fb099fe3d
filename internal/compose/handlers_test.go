package compose

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postDraft(h *Handlers, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/compose/draft", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleDraft(rec, req)
	return rec
}

func TestHandleDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text": "Dear hiring team, ..."}]`))
	}))
	defer srv.Close()

	h := NewHandlers(newClientForTest(srv.URL, "m", srv.Client()))

	rec := postDraft(h, `{"jobTitle": "SRE", "resumeSummary": "5 years of infra"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Dear hiring team")
}

func TestHandleDraftMissingFields(t *testing.T) {
	h := NewHandlers(newClientForTest("http://unused", "m", http.DefaultClient))

	for name, body := range map[string]string{
		"no job title":       `{"resumeSummary": "5 years of infra"}`,
		"no resume summary":  `{"jobTitle": "SRE"}`,
		"both fields absent": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := postDraft(h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleDraftDisabled(t *testing.T) {
	h := NewHandlers(nil)

	rec := postDraft(h, `{"jobTitle": "SRE", "resumeSummary": "infra"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleLogLevelRequiresPost(t *testing.T) {
	s := New(Config{Enabled: true})

	req := httptest.NewRequest(http.MethodGet, "/-/loglevel", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleLogLevelSetsLevelFromFormBody(t *testing.T) {
	s := New(Config{Enabled: true})

	body := strings.NewReader(url.Values{"level": {"debug"}}.Encode())
	req := httptest.NewRequest(http.MethodPost, "/-/loglevel", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleLogLevelRejectsMissingLevel(t *testing.T) {
	s := New(Config{Enabled: true})

	req := httptest.NewRequest(http.MethodPost, "/-/loglevel", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

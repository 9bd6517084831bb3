package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	t.Run("api error maps to problem details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/sites/nope", nil)

		h.HandleError(rec, req, SiteNotFoundError("nope"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		body := decodeProblem(t, rec)
		assert.Equal(t, TypeSiteUnknown, body["type"])
		assert.Equal(t, "SITE_NOT_FOUND", body["error_code"])
		assert.Equal(t, "/api/sites/nope", body["instance"])
	})

	t.Run("unknown error becomes opaque 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)

		h.HandleError(rec, req, errors.New("disk exploded"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		body := decodeProblem(t, rec)
		assert.Equal(t, TypeInternal, body["type"])
		assert.NotContains(t, rec.Body.String(), "disk exploded")
	})

	t.Run("context cancellation becomes timeout", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)

		h.HandleError(rec, req, context.DeadlineExceeded)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		h.HandleError(rec, req, nil)
		assert.Empty(t, rec.Body.String())
	})
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad site", "/api/x").
		WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "abc-123", body["trace_id"])
	assert.Equal(t, float64(http.StatusBadRequest), body["status"])
	assert.Equal(t, "bad site", body["detail"])
}

func TestValidationHelpers(t *testing.T) {
	err := ErrValidation("site", "unknown site id")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "site", details.Field)
}

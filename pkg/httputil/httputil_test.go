package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bhanu79755/Shopbuy/pkg/errors"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

// --- WriteJSON ---

func TestWriteJSON_SetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]string{"key": "value"})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "value", resp["data"]["key"])
}

// --- WriteError ---

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-1"))

	WriteError(rec, req, apperrors.NotFound("product", "9"), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", e.Code)
	assert.Equal(t, "product with id 9 not found", e.Message)
	assert.Equal(t, "corr-1", e.RequestID)
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, fmt.Errorf("lookup: %w", apperrors.ErrNotFound), testLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Code)
}

func TestWriteError_ValidationError(t *testing.T) {
	type form struct {
		Name string `json:"name" validate:"required"`
	}
	verr := validator.Validate(form{})
	require.Error(t, verr)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	WriteError(rec, req, verr, testLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", e.Code)
	assert.Equal(t, "is required", e.Fields["name"])
}

func TestWriteError_UnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, req, errors.New("disk on fire"), testLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", e.Code)
	assert.NotContains(t, e.Message, "disk on fire")
}

// --- WriteValidationError ---

func TestWriteValidationError_DecodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	WriteValidationError(rec, req, errors.New("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

// --- ParseID ---

func TestParseID(t *testing.T) {
	tests := []struct {
		param  string
		wantOK bool
		want   int64
	}{
		{"7", true, 7},
		{"0", false, 0},
		{"-3", false, 0},
		{"abc", false, 0},
		{"", false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.param, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())

			id, ok := ParseID(rec, req, "id", tc.param)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
			}
		})
	}
}

package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "signup/pkg/domain-errors"
)

func TestWriteErrorHidesInternalCause(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to save account"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "connection refused")
	assert.NotContains(t, rr.Body.String(), "failed to save")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, string(dErrors.CodeInternal), body.Error)
}

func TestWriteErrorPlainErrorIsInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(dErrors.CodeBadRequest))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(dErrors.CodeValidation))
	assert.Equal(t, http.StatusConflict, ToHTTPStatus(dErrors.CodeConflict))
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(dErrors.CodeNotFound))
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("valid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
		got, ok := DecodeJSON[payload](rr, req, logger, req.Context(), "")
		require.True(t, ok)
		assert.Equal(t, "x", got.Name)
	})

	t.Run("malformed body writes 400", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
		_, ok := DecodeJSON[payload](rr, req, logger, req.Context(), "")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty body decodes as zero value", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		got, ok := DecodeJSON[payload](rr, req, logger, req.Context(), "")
		require.True(t, ok)
		assert.Empty(t, got.Name)
		assert.Empty(t, rr.Body.String())
	})
}

package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/tokenbox/internal/errors"
)

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest("POST", "/container/init", nil)

	HandleErrorGin(c, err, nil)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return recorder, resp
}

func TestSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	Success(c, map[string]bool{"OATH0001": true})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Result.Status)
	assert.Nil(t, resp.Result.Error)
}

func TestHandleErrorGin(t *testing.T) {
	t.Run("PolicyDenied", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.ErrForbidden)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.False(t, resp.Result.Status)
		assert.Equal(t, CodePolicyDenied, resp.Result.Error.Code)
	})

	t.Run("NotFoundKeepsDistinctCode", func(t *testing.T) {
		err := apperrors.WithCode(apperrors.Wrap(apperrors.ErrNotFound, "container not found"), CodeNotFound)
		recorder, resp := performError(t, err)
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, CodeNotFound, resp.Result.Error.Code)
	})

	t.Run("UserNotFoundIsBadRequest", func(t *testing.T) {
		err := apperrors.WithCode(apperrors.Wrap(apperrors.ErrNotFound, "user not found"), CodeUserNotFound)
		recorder, resp := performError(t, err)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeUserNotFound, resp.Result.Error.Code)
	})

	t.Run("Conflict", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.ErrConflict)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeConflict, resp.Result.Error.Code)
	})

	t.Run("MissingParameter", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.Wrap(apperrors.ErrMissingParameter, "'serial'"))
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeMissingParameter, resp.Result.Error.Code)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.ErrUnsupportedType)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeUnsupportedType, resp.Result.Error.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.ErrUnauthorized)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, CodeAdminRequired, resp.Result.Error.Code)
	})

	t.Run("InternalErrorHidesDetails", func(t *testing.T) {
		recorder, resp := performError(t, apperrors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, CodeInternal, resp.Result.Error.Code)
		assert.NotContains(t, resp.Result.Error.Message, "pq:")
	})
}

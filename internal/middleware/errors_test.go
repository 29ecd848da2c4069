package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsf-ski/race-service/internal/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError_MapsAppErrorKindToStatus(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, apperrors.Conflictf("bib already used"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"bib already used"}`, w.Body.String())
}

func TestRespondError_PlainErrorBecomes500(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, errors.New("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestErrorHandler_RespondsFromLastGinError(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", func(c *gin.Context) {
		c.Error(apperrors.NotFoundf("race %s not found", "race-1"))
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"race race-1 not found"}`, w.Body.String())
}

func TestErrorHandler_NoOpWhenHandlerSucceeds(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

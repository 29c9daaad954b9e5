package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func serve(t *testing.T, r *Responder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/things/:id", func(c *gin.Context) { r.RespondError(c, err) })
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestRespondError_UsesMappers(t *testing.T) {
	r := NewResponder(nil, func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errBoom) {
			return ErrConflict.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})
	rec, body := serve(t, r, errBoom)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, TypeConflict, body.Type)
	require.Equal(t, "/things/1", body.Instance)
}

func TestRespondError_PassesProblemThrough(t *testing.T) {
	rec, body := serve(t, NewResponder(nil), NewNotFoundProblem("member", 4))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "member", body.Extensions["resourceType"])
}

func TestRespondError_UnknownIsInternal(t *testing.T) {
	rec, body := serve(t, NewResponder(nil), errors.New("db down"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, body.Detail)
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrValidation.WithExtension("a", 1)
	derived := base.WithExtension("b", 2)
	require.Len(t, base.Extensions, 1)
	require.Len(t, derived.Extensions, 2)
}

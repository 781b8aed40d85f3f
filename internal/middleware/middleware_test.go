package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", append(handlers, func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})...)
	return r
}

func serve(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v[0])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := newEngine(JWTAuthMiddleware("secret"))

	w := serve(r, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	forged, err := utils.GenerateJWT(7, "john", "other-secret")
	require.NoError(t, err)
	w = serve(r, http.Header{"Authorization": {"Bearer " + forged}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateJWT(7, "john", "secret")
	require.NoError(t, err)
	w = serve(r, http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
}

func TestRequestLoggerAssignsID(t *testing.T) {
	r := newEngine(RequestLogger())

	w := serve(r, nil)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	incoming := uuid.NewString()
	w = serve(r, http.Header{RequestIDHeader: {incoming}})
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	w = serve(r, http.Header{RequestIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestCurrentUserIDMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentUserID(c)
	assert.False(t, ok)

	c.Set(UserIDKey, "7")
	_, ok = CurrentUserID(c)
	assert.False(t, ok)
}

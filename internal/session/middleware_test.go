package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type touchRecordingStore struct {
	*MemoryStore
	touched []string
}

func (s *touchRecordingStore) Touch(ctx context.Context, sid string) error {
	s.touched = append(s.touched, sid)
	return s.MemoryStore.Touch(ctx, sid)
}

func TestMiddlewareTouchesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &touchRecordingStore{MemoryStore: NewMemoryStore()}

	router := gin.New()
	router.Use(Middleware(store, "sid", false))
	router.GET("/", func(c *gin.Context) {
		require.NotNil(t, FromContext(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s-1"})
	router.ServeHTTP(httptest.NewRecorder(), req)

	// 每个请求滑动一次过期时间
	assert.Equal(t, []string{"s-1"}, store.touched)
}

func TestMiddlewareIssuesCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &touchRecordingStore{MemoryStore: NewMemoryStore()}

	router := gin.New()
	router.Use(Middleware(store, "sid", false))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.Equal(t, []string{cookies[0].Value}, store.touched)
}

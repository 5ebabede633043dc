package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() { gin.SetMode(gin.TestMode) }

func TestIPLimiter_DeniesBeyondLimit(t *testing.T) {
	l := newIPLimiter(3, time.Minute, "too many")

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1"), "hit %d", i+1)
	}
	assert.False(t, l.allow("10.0.0.1"))

	// Each IP gets its own window.
	assert.True(t, l.allow("10.0.0.2"))
}

func TestIPLimiter_WindowResets(t *testing.T) {
	l := newIPLimiter(1, 10*time.Millisecond, "too many")

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	time.Sleep(25 * time.Millisecond)
	assert.True(t, l.allow("10.0.0.1"))
}

func TestRateLimiter_Returns429WithDetail(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get().Code)

	w := get()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
}

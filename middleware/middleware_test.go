package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "test-secret", AdminUsernames: []string{"admin"}})
	os.Exit(m.Run())
}

func authedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"profile_id": ctx.GetUint(ContextProfileIDKey),
			"username":   ctx.GetString(ContextUsernameKey),
		})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := authedEngine()
	token, err := utils.GenerateToken(7, "alice", time.Hour)
	require.NoError(t, err)

	w := get(r, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"profile_id":7,"username":"alice"}`, w.Body.String())

	for _, header := range []string{"", "Token " + token, "Bearer ", "Bearer not-a-jwt"} {
		w = get(r, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}

	expired, err := utils.GenerateToken(7, "alice", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+expired).Code)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	r := authedEngine()
	token, err := utils.GenerateToken(8, "bob", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(token, time.Now().Add(time.Hour))

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+token).Code)
}

func TestAdminRequired(t *testing.T) {
	r := authedEngine()
	user, _ := utils.GenerateToken(1, "alice", time.Hour)
	admin, _ := utils.GenerateToken(2, "admin", time.Hour)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer "+user).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", "Bearer "+admin).Code)
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(60)
	l.now = func() time.Time { return now }

	// burst of half the per-minute budget
	for i := 0; i < 30; i++ {
		require.True(t, l.Allow("1.1.1.1"), "request %d", i)
	}
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "clients are limited separately")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "one token refills per second")

	now = now.Add(10 * time.Minute)
	l.Allow("3.3.3.3")
	l.mu.Lock()
	_, kept := l.clients["2.2.2.2"]
	l.mu.Unlock()
	assert.False(t, kept, "idle clients are forgotten")
}

func TestRateLimitMiddlewareAnswers429(t *testing.T) {
	r := gin.New()
	r.GET("/", NewIPRateLimiter(2).Middleware(), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/", "").Code)
}

func TestViewCounter(t *testing.T) {
	done := make(chan uint, 3)
	record := func(_ context.Context, id uint) error {
		done <- id
		return nil
	}

	r := gin.New()
	r.GET("/products/:id", ViewCounter("id", record), func(ctx *gin.Context) {
		if ctx.Param("id") == "404" {
			ctx.Status(http.StatusNotFound)
			return
		}
		ctx.Status(http.StatusOK)
	})

	get(r, "/products/404", "")
	get(r, "/products/abc", "")
	get(r, "/products/5", "")

	select {
	case id := <-done:
		assert.Equal(t, uint(5), id)
	case <-time.After(2 * time.Second):
		t.Fatal("view was not recorded")
	}
	select {
	case id := <-done:
		t.Fatalf("unexpected view for %d", id)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/things/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	counter := utils.HTTPRequests.WithLabelValues("/things/:id", http.MethodGet, "200")
	before := testutil.ToFloat64(counter)
	get(r, "/things/1", "")
	get(r, "/things/2", "")
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	unmatched := utils.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before = testutil.ToFloat64(unmatched)
	get(r, "/nowhere", "")
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}

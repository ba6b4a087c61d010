package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/config"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "utils-secret"})
	os.Exit(m.Run())
}

func uniq(prefix string) string {
	return prefix + uuid.NewString() + "@example.com"
}

func TestGenerateVerificationCode(t *testing.T) {
	code := GenerateVerificationCode(6)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "non digit %q", r)
	}
	assert.Len(t, GenerateVerificationCode(0), 6)
}

func TestVerifyAndConsumeCode(t *testing.T) {
	email := uniq("otp")
	SaveCode(email, "123456", time.Minute)

	assert.True(t, VerifyAndConsumeCode(strings.ToUpper(email), "123456"))
	assert.False(t, VerifyAndConsumeCode(email, "123456"), "code is single use")

	SaveCode(email, "654321", time.Minute)
	assert.False(t, VerifyAndConsumeCode(email, "000000"))
	assert.False(t, VerifyAndConsumeCode(email, "654321"), "wrong attempt burns the code")

	assert.False(t, VerifyAndConsumeCode(uniq("none"), "123456"))
}

func TestSaveCodeReplacesEarlier(t *testing.T) {
	email := uniq("replace")
	SaveCode(email, "111111", time.Minute)
	SaveCode(email, "222222", time.Minute)
	assert.True(t, VerifyAndConsumeCode(email, "222222"))
}

func TestExpiredCode(t *testing.T) {
	email := uniq("expired")
	SaveCode(email, "123456", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.False(t, VerifyAndConsumeCode(email, "123456"))
}

func TestEmailCooldown(t *testing.T) {
	email := uniq("cooldown")
	assert.True(t, EmailCooldownTrySet(email, time.Minute))
	assert.False(t, EmailCooldownTrySet(email, time.Minute))
	assert.False(t, EmailCooldownTrySet(" "+strings.ToUpper(email), time.Minute))

	released := uniq("released")
	assert.True(t, EmailCooldownTrySet(released, time.Minute))
	EmailCooldownRelease(strings.ToUpper(released))
	assert.True(t, EmailCooldownTrySet(released, time.Minute))

	short := uniq("short")
	assert.True(t, EmailCooldownTrySet(short, time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, EmailCooldownTrySet(short, time.Millisecond))
}

func TestOAuthState(t *testing.T) {
	state := uuid.NewString()
	SaveState(state, 0)
	assert.True(t, ConsumeState(state))
	assert.False(t, ConsumeState(state))
	assert.False(t, ConsumeState(""))
}

func TestTokenBlacklist(t *testing.T) {
	tok := uuid.NewString()
	assert.False(t, IsTokenBlacklisted(tok))
	BlacklistToken(tok, time.Now().Add(time.Minute))
	assert.True(t, IsTokenBlacklisted(tok))

	past := uuid.NewString()
	BlacklistToken(past, time.Now().Add(-time.Minute))
	assert.False(t, IsTokenBlacklisted(past))
}

func TestCaptchaStore(t *testing.T) {
	s := NewCaptchaStore(time.Minute)
	id := uuid.NewString()
	require.NoError(t, s.Set(id, "4821"))

	assert.Equal(t, "4821", s.Get(id, false))
	assert.False(t, s.Verify(id, "0000", false))
	assert.True(t, s.Verify(id, "4821", true))
	assert.False(t, s.Verify(id, "4821", true), "cleared after verify")
	assert.False(t, s.Verify(uuid.NewString(), "", false))
}

func TestSanitize(t *testing.T) {
	out := Sanitize(`<p>hi</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hi</p>")
	assert.NotContains(t, out, "script")

	assert.Equal(t, "bold & text", PlainText("  <b>bold</b> &amp; text "))
	assert.Equal(t, "", PlainText("<script>x</script>"))
}

func TestPassword(t *testing.T) {
	assert.False(t, ValidPassword("short"))
	assert.True(t, ValidPassword("longenough"))
	assert.False(t, ValidPassword(strings.Repeat("a", MaxPasswordLen+1)))

	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("", "correct horse"))
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(42, "maker", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ProfileID)
	assert.Equal(t, "maker", claims.Username)
	assert.Equal(t, "wemake", claims.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := GenerateToken(1, "old", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	noProfile, err := GenerateToken(0, "ghost", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(noProfile)
	assert.Error(t, err)

	other, err := GenerateToken(1, "x", time.Hour)
	require.NoError(t, err)
	config.Set(config.AppConfig{JWTSecret: "rotated"})
	defer config.Set(config.AppConfig{JWTSecret: "utils-secret"})
	_, err = ParseToken(other)
	assert.Error(t, err)
}

func TestResponseEnvelope(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/ok", func(c *gin.Context) { Success(c, gin.H{"n": 1}) })
	r.GET("/fail", func(c *gin.Context) { Error(c, http.StatusBadRequest, 40000, "bad") }, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"n":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var env JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 40000, env.Code)
	assert.Nil(t, env.Data)
	assert.False(t, reached, "Error aborts the chain")
}

func TestCacheWithoutRedis(t *testing.T) {
	SetRedis(nil)
	disabled := cacheLookups.WithLabelValues("disabled")
	before := testutil.ToFloat64(disabled)
	r := gin.New()
	r.GET("/c", func(c *gin.Context) {
		if ServeCached(c, "cache:test") {
			return
		}
		SuccessCached(c, "cache:test", "fresh", time.Minute)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/c", nil))
	assert.JSONEq(t, `{"code":0,"message":"success","data":"fresh"}`, w.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(disabled))
	InvalidateByPrefix(context.Background(), "cache:")
}

func TestMailerNotConfigured(t *testing.T) {
	m := NewSMTPMailer(config.AppConfig{})
	assert.ErrorIs(t, m.Send("a@example.com", "s", "b"), ErrMailNotConfigured)

	m = NewSMTPMailer(config.AppConfig{SMTPHost: "smtp.example.com"})
	assert.ErrorIs(t, m.Send("a@example.com", "s", "b"), ErrMailNotConfigured)
}

func TestBuildMessage(t *testing.T) {
	cfg := config.AppConfig{SMTPFrom: "noreply@wemake.dev"}
	msg := string(buildMessage(cfg, "maker@example.com", "Login code", "Your code is 123456"))

	assert.Contains(t, msg, "From: wemake <noreply@wemake.dev>\r\n")
	assert.Contains(t, msg, "To: maker@example.com\r\n")
	assert.Contains(t, msg, "Subject: Login code\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nYour code is 123456")

	cfg.SMTPFromName = "위메이크"
	msg = string(buildMessage(cfg, "maker@example.com", "코드", "x"))
	assert.Contains(t, msg, "From: =?UTF-8?b?")
	assert.Contains(t, msg, "Subject: =?UTF-8?b?")
}

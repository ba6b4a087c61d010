package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// fakeProfileStore keeps profiles in memory; unused methods panic.
type fakeProfileStore struct {
	ProfileStore
	profiles map[uint]models.Profile
	nextID   uint
}

func newFakeProfiles() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[uint]models.Profile{}, nextID: 1}
}

func (f *fakeProfileStore) CreateProfile(_ context.Context, p *models.Profile) error {
	for _, existing := range f.profiles {
		if existing.Username == p.Username || existing.EmailValue() == p.EmailValue() {
			return store.ErrDuplicate
		}
	}
	p.ID = f.nextID
	f.nextID++
	f.profiles[p.ID] = *p
	return nil
}

func (f *fakeProfileStore) ProfileByID(_ context.Context, id uint) (models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return models.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) ProfileByLogin(_ context.Context, login string) (models.Profile, error) {
	for _, p := range f.profiles {
		if p.Username == login || p.EmailValue() == login {
			return p, nil
		}
	}
	return models.Profile{}, store.ErrNotFound
}

func (f *fakeProfileStore) FindOrCreateProfile(ctx context.Context, id store.Identity) (models.Profile, error) {
	for _, p := range f.profiles {
		if p.EmailValue() == id.Email {
			return p, nil
		}
	}
	email := id.Email
	p := models.Profile{Name: id.Email, Username: strings.SplitN(id.Email, "@", 2)[0], Email: &email, Provider: id.Provider}
	return p, f.CreateProfile(ctx, &p)
}

type recordingMailer struct {
	to, body string
	err      error
}

func (m *recordingMailer) Send(to, _, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.body = to, body
	return nil
}

func authRouter(f *fakeProfileStore, mailer utils.Mailer) *gin.Engine {
	r := gin.New()
	c := NewAuthController(f, mailer)
	r.POST("/auth/join", c.Join)
	r.POST("/auth/login", c.Login)
	r.POST("/auth/otp/start", c.StartOTP)
	r.POST("/auth/otp/complete", c.CompleteOTP)
	r.GET("/auth/me", asProfile(1, "alice"), c.Me)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestJoinAndLogin(t *testing.T) {
	f := newFakeProfiles()
	r := authRouter(f, &recordingMailer{})

	w := postJSON(r, "/auth/join", `{"name":"Alice","username":"alice","email":"Alice@Example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token   string         `json:"token"`
		Profile map[string]any `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	claims, err := utils.ParseToken(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", data.Profile["email"])
	assert.NotContains(t, w.Body.String(), "correct horse")
	assert.NotEqual(t, "correct horse", f.profiles[1].PasswordHash)

	w = postJSON(r, "/auth/join", `{"name":"Other","username":"alice","email":"other@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(r, "/auth/login", `{"login":"alice@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = postJSON(r, "/auth/login", `{"login":"alice","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/auth/login", `{"login":"nobody","password":"whatever1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJoinValidation(t *testing.T) {
	r := authRouter(newFakeProfiles(), &recordingMailer{})
	tests := map[string]int{
		`{"name":"A","username":"A!","email":"a@example.com","password":"longenough"}`: 40002,
		`{"name":"A","username":"abc","email":"a@example.com","password":"short"}`:     40003,
		`{"name":"<b></b>","username":"abc","email":"a@example.com","password":"longenough"}`: 40004,
		`{"name":"A","username":"abc","email":"not-an-email","password":"longenough"}`: 40001,
	}
	for body, code := range tests {
		w := postJSON(r, "/auth/join", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, code, decode(t, w).Code, body)
	}
}

func TestOTPFlow(t *testing.T) {
	f := newFakeProfiles()
	mailer := &recordingMailer{}
	r := authRouter(f, mailer)

	w := postJSON(r, "/auth/otp/start", `{"email":"otp-flow@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "otp-flow@example.com", mailer.to)

	// a second request inside the cooldown is refused
	w = postJSON(r, "/auth/otp/start", `{"email":"otp-flow@example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	code := mailer.body[strings.Index(mailer.body, "is ")+3 : strings.Index(mailer.body, ".")]
	require.Len(t, code, 6)

	w = postJSON(r, "/auth/otp/complete", `{"email":"otp-flow@example.com","code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, f.profiles, 1)

	// codes are single use
	w = postJSON(r, "/auth/otp/complete", `{"email":"otp-flow@example.com","code":"`+code+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40064, decode(t, w).Code)
}

func TestOTPSendFailureAllowsRetry(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp: connection refused")}
	r := authRouter(newFakeProfiles(), mailer)

	w := postJSON(r, "/auth/otp/start", `{"email":"otp-retry@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 50008, decode(t, w).Code)

	// the failed send does not hold the address in cooldown
	mailer.err = nil
	w = postJSON(r, "/auth/otp/start", `{"email":"otp-retry@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "otp-retry@example.com", mailer.to)
}

func TestMeIncludesAdminFlag(t *testing.T) {
	f := newFakeProfiles()
	email := "alice@example.com"
	f.profiles[1] = models.Profile{ID: 1, Name: "Alice", Username: "admin", Email: &email}
	w := httptest.NewRecorder()
	authRouter(f, &recordingMailer{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_admin":true`)
}

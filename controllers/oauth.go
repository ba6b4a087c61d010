package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// StartOAuth returns the provider's authorization URL with a fresh single-use state.
func (a *AuthController) StartOAuth(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))
	cfg, err := oauthConfig(config.Get(), provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, err.Error())
		return
	}
	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)
	utils.Success(ctx, gin.H{"authorization_url": cfg.AuthCodeURL(state), "state": state})
}

// CompleteOAuth exchanges the authorization code, links or creates the profile and issues a JWT.
func (a *AuthController) CompleteOAuth(ctx *gin.Context) {
	provider := strings.ToLower(ctx.Param("provider"))
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40051, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid or expired state")
		return
	}
	cfg, err := oauthConfig(config.Get(), provider)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, err.Error())
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 15*time.Second)
	defer cancel()
	token, err := cfg.Exchange(reqCtx, code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "failed to exchange code")
		return
	}
	identity, err := a.fetchIdentity(reqCtx, provider, token.AccessToken)
	if err != nil {
		utils.Sugar.Errorw("fetch oauth profile failed", "provider", provider, "err", err)
		utils.Error(ctx, http.StatusBadGateway, 50250, "failed to read provider profile")
		return
	}
	profile, err := a.profiles.FindOrCreateProfile(ctx.Request.Context(), identity)
	if err != nil {
		storeError(ctx, err, 50006, "failed to persist profile")
		return
	}
	a.issueToken(ctx, profile)
}

func oauthConfig(cfg config.AppConfig, provider string) (*oauth2.Config, error) {
	redirect := fmt.Sprintf("%s/api/v1/auth/social/%s/complete", strings.TrimRight(cfg.OAuthRedirectBase, "/"), provider)
	switch provider {
	case "github":
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return nil, fmt.Errorf("github login is not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}, nil
	case "google":
		if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
			return nil, fmt.Errorf("google login is not configured")
		}
		return &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (a *AuthController) fetchIdentity(ctx context.Context, provider, accessToken string) (store.Identity, error) {
	switch provider {
	case "github":
		return a.fetchGitHub(ctx, accessToken)
	case "google":
		return a.fetchGoogle(ctx, accessToken)
	default:
		return store.Identity{}, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func (a *AuthController) fetchGitHub(ctx context.Context, accessToken string) (store.Identity, error) {
	type githubUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	type githubEmail struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}

	res, err := a.http.R().WithContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/vnd.github+json").
		SetResult(&githubUser{}).
		Get("https://api.github.com/user")
	if err != nil {
		return store.Identity{}, err
	}
	if res.IsError() {
		return store.Identity{}, fmt.Errorf("github user request failed: %s", res.Status())
	}
	user := res.Result().(*githubUser)

	identity := store.Identity{
		Provider:   "github",
		ProviderID: strconv.FormatInt(user.ID, 10),
		Username:   user.Login,
		Name:       user.Name,
		Avatar:     user.AvatarURL,
	}
	if identity.Name == "" {
		identity.Name = user.Login
	}

	res, err = a.http.R().WithContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Accept", "application/vnd.github+json").
		SetResult(&[]githubEmail{}).
		Get("https://api.github.com/user/emails")
	if err != nil || res.IsError() {
		// the email scope may be refused; the profile works without one
		return identity, nil
	}
	for _, e := range *res.Result().(*[]githubEmail) {
		if e.Primary && e.Verified {
			identity.Email = e.Email
			break
		}
	}
	return identity, nil
}

func (a *AuthController) fetchGoogle(ctx context.Context, accessToken string) (store.Identity, error) {
	type googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	res, err := a.http.R().WithContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&googleUser{}).
		Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return store.Identity{}, err
	}
	if res.IsError() {
		return store.Identity{}, fmt.Errorf("google userinfo request failed: %s", res.Status())
	}
	user := res.Result().(*googleUser)
	identity := store.Identity{
		Provider:   "google",
		ProviderID: user.ID,
		Name:       user.Name,
		Avatar:     user.Picture,
	}
	if user.VerifiedEmail {
		identity.Email = user.Email
		identity.Username = strings.SplitN(user.Email, "@", 2)[0]
	}
	return identity, nil
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"resty.dev/v3"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/middleware"
	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// AuthController handles password, one-time code and social sign-in plus the caller's own profile.
type AuthController struct {
	profiles ProfileStore
	mailer   utils.Mailer
	http     *resty.Client
}

// NewAuthController creates an AuthController. The resty client is used for provider profile lookups.
func NewAuthController(profiles ProfileStore, mailer utils.Mailer) *AuthController {
	return &AuthController{
		profiles: profiles,
		mailer:   mailer,
		http:     resty.New().SetTimeout(10 * time.Second),
	}
}

// Join creates a password account and signs it in.
func (a *AuthController) Join(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=64"`
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !store.ValidUsername(username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 3 to 20 lowercase letters, digits, '_' or '-'")
		return
	}
	if !utils.ValidPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "password must be 8 to 64 characters")
		return
	}
	name := utils.PlainText(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40004, "name cannot be empty")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile := models.Profile{
		Name:         name,
		Username:     username,
		Email:        &email,
		PasswordHash: hash,
		Provider:     "password",
	}
	if err := a.profiles.CreateProfile(ctx.Request.Context(), &profile); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40901, "username or email already in use")
			return
		}
		storeError(ctx, err, 50002, "failed to create profile")
		return
	}
	a.issueToken(ctx, profile)
}

// Login verifies an email or username with its password and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "invalid request payload")
		return
	}
	profile, err := a.profiles.ProfileByLogin(ctx.Request.Context(), req.Login)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		storeError(ctx, err, 50003, "failed to load profile")
		return
	}
	if err != nil || !utils.CheckPassword(profile.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid login or password")
		return
	}
	a.issueToken(ctx, profile)
}

// Logout revokes the bearer token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	expiresAt := time.Now().Add(utils.TokenTTL)
	if v, ok := ctx.Get(middleware.ContextClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
	}
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}
	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the caller's profile including private fields.
func (a *AuthController) Me(ctx *gin.Context) {
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	profile, err := a.profiles.ProfileByID(ctx.Request.Context(), profileID)
	if err != nil {
		storeError(ctx, err, 50004, "failed to load profile")
		return
	}
	utils.Success(ctx, privateProfile(profile))
}

// UpdateProfile edits the caller's name, role, headline, bio and avatar.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		Headline *string `json:"headline"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, "invalid request payload")
		return
	}
	update := store.ProfileUpdate{
		Name:     cleanOptional(req.Name, utils.PlainText),
		Role:     req.Role,
		Headline: cleanOptional(req.Headline, utils.PlainText),
		Bio:      cleanOptional(req.Bio, utils.Sanitize),
		Avatar:   req.Avatar,
	}
	profile, err := a.profiles.UpdateProfile(ctx.Request.Context(), profileID, update)
	if err != nil {
		storeError(ctx, err, 50007, "failed to update profile")
		return
	}
	utils.InvalidateByPrefix(ctx.Request.Context(), "cache:profile:")
	utils.Success(ctx, privateProfile(profile))
}

// Captcha returns a fresh captcha id and base64 image (data URI).
func (a *AuthController) Captcha(ctx *gin.Context) {
	id, b64, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to generate captcha")
		return
	}
	utils.Success(ctx, gin.H{"id": id, "image": b64})
}

// StartOTP mails a one-time login code.
func (a *AuthController) StartOTP(ctx *gin.Context) {
	var req struct {
		Email         string `json:"email" binding:"required,email"`
		CaptchaID     string `json:"captcha_id"`
		CaptchaAnswer string `json:"captcha_answer"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "a valid email is required")
		return
	}
	cfg := config.Get()
	if cfg.OTPCaptchaEnabled && !utils.VerifyCaptcha(req.CaptchaID, req.CaptchaAnswer) {
		utils.Error(ctx, http.StatusBadRequest, 40062, "captcha is wrong or expired")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.EmailCooldownTrySet(email, 60*time.Second) {
		utils.Error(ctx, http.StatusTooManyRequests, 42910, "please wait before requesting another code")
		return
	}

	ttl := time.Duration(cfg.OTPCodeTTLMinutes) * time.Minute
	code := utils.GenerateVerificationCode(6)
	body := fmt.Sprintf("Your wemake login code is %s.\nIt expires in %d minutes.", code, cfg.OTPCodeTTLMinutes)
	if err := a.mailer.Send(email, "Your wemake login code", body); err != nil {
		utils.Sugar.Errorw("send otp mail failed", "err", err)
		utils.EmailCooldownRelease(email)
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to send code, try again later")
		return
	}
	// saved only after the mail went out
	utils.SaveCode(email, code, ttl)
	utils.Success(ctx, gin.H{"message": "code sent"})
}

// CompleteOTP exchanges an emailed code for a token, creating the profile on first sign-in.
func (a *AuthController) CompleteOTP(ctx *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6,numeric"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40063, "email and 6 digit code are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.VerifyAndConsumeCode(email, req.Code) {
		utils.Error(ctx, http.StatusBadRequest, 40064, "code is wrong or expired")
		return
	}
	profile, err := a.profiles.FindOrCreateProfile(ctx.Request.Context(), store.Identity{
		Provider: "email",
		Email:    email,
	})
	if err != nil {
		storeError(ctx, err, 50009, "failed to sign in")
		return
	}
	a.issueToken(ctx, profile)
}

func (a *AuthController) issueToken(ctx *gin.Context, profile models.Profile) {
	token, err := utils.GenerateToken(profile.ID, profile.Username, utils.TokenTTL)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to generate token")
		return
	}
	utils.Success(ctx, gin.H{"token": token, "profile": privateProfile(profile)})
}

func cleanOptional(v *string, clean func(string) string) *string {
	if v == nil {
		return nil
	}
	s := clean(*v)
	return &s
}

func publicProfile(p models.Profile) gin.H {
	return gin.H{
		"profile_id": p.ID,
		"name":       p.Name,
		"username":   p.Username,
		"avatar":     p.Avatar,
		"role":       p.Role,
		"headline":   p.Headline,
		"bio":        p.Bio,
		"created_at": p.CreatedAt,
	}
}

func privateProfile(p models.Profile) gin.H {
	m := publicProfile(p)
	m["email"] = p.EmailValue()
	m["provider"] = p.Provider
	m["is_admin"] = config.Get().IsAdmin(p.Username)
	return m
}

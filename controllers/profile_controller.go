package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// ProfileController serves public member pages.
type ProfileController struct {
	profiles ProfileStore
}

// NewProfileController creates a ProfileController.
func NewProfileController(s ProfileStore) *ProfileController {
	return &ProfileController{profiles: s}
}

// GetProfile returns the public fields of a profile.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := p.profiles.ProfileByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		storeError(ctx, err, 50090, "failed to load profile")
		return
	}
	utils.Success(ctx, publicProfile(profile))
}

// ProfileProducts lists the products a member launched.
func (p *ProfileController) ProfileProducts(ctx *gin.Context) {
	profile, err := p.profiles.ProfileByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		storeError(ctx, err, 50091, "failed to load profile")
		return
	}
	products, err := p.profiles.ProductsByProfile(ctx.Request.Context(), profile.ID)
	if err != nil {
		storeError(ctx, err, 50092, "failed to list products")
		return
	}
	utils.Success(ctx, gin.H{"items": products})
}

// ProfilePosts lists a member's community posts, newest first.
func (p *ProfileController) ProfilePosts(ctx *gin.Context) {
	profile, err := p.profiles.ProfileByUsername(ctx.Request.Context(), ctx.Param("username"))
	if err != nil {
		storeError(ctx, err, 50093, "failed to load profile")
		return
	}
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	key := fmt.Sprintf("cache:profile:%d:posts:page=%d:size=%d", profile.ID, page, pageSize)
	if utils.ServeCached(ctx, key) {
		return
	}
	result, err := p.profiles.ListPosts(ctx.Request.Context(), store.PostQuery{
		Author:   profile.Username,
		Sorting:  store.SortNewest,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		storeError(ctx, err, 50094, "failed to list posts")
		return
	}
	utils.SuccessCached(ctx, key, result, time.Hour)
}

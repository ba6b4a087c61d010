package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/utils"
)

// IdeaController serves the generated ideas marketplace.
type IdeaController struct {
	store IdeaStore
}

// NewIdeaController creates an IdeaController.
func NewIdeaController(s IdeaStore) *IdeaController {
	return &IdeaController{store: s}
}

// ListIdeas returns unclaimed ideas with their like counts.
func (i *IdeaController) ListIdeas(ctx *gin.Context) {
	ideas, err := i.store.ListIdeas(ctx.Request.Context(), parseLimit(ctx.Query("limit"), 20))
	if err != nil {
		storeError(ctx, err, 50080, "failed to list ideas")
		return
	}
	utils.Success(ctx, gin.H{"items": ideas})
}

// GetIdea returns one idea and counts the view.
func (i *IdeaController) GetIdea(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	idea, err := i.store.GetIdea(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50081, "failed to load idea")
		return
	}
	utils.Success(ctx, gin.H{"idea": idea})
}

// ClaimIdea gives an unclaimed idea to the caller.
func (i *IdeaController) ClaimIdea(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	if err := i.store.ClaimIdea(ctx.Request.Context(), id, profileID); err != nil {
		storeError(ctx, err, 50082, "failed to claim idea")
		return
	}
	utils.Success(ctx, gin.H{"claimed": true})
}

// ToggleLike likes or unlikes an idea.
func (i *IdeaController) ToggleLike(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	liked, err := i.store.ToggleIdeaLike(ctx.Request.Context(), id, profileID)
	if err != nil {
		storeError(ctx, err, 50083, "failed to toggle like")
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}

// MyIdeas lists the ideas the caller has claimed.
func (i *IdeaController) MyIdeas(ctx *gin.Context) {
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	ideas, err := i.store.ClaimedIdeas(ctx.Request.Context(), profileID)
	if err != nil {
		storeError(ctx, err, 50084, "failed to list claimed ideas")
		return
	}
	utils.Success(ctx, gin.H{"items": ideas})
}

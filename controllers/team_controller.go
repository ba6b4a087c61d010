package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// TeamController serves "looking for teammates" listings.
type TeamController struct {
	store TeamStore
}

// NewTeamController creates a TeamController.
func NewTeamController(s TeamStore) *TeamController {
	return &TeamController{store: s}
}

// ListTeams returns the newest listings.
func (t *TeamController) ListTeams(ctx *gin.Context) {
	teams, err := t.store.ListTeams(ctx.Request.Context(), parseLimit(ctx.Query("limit"), 20))
	if err != nil {
		storeError(ctx, err, 50070, "failed to list teams")
		return
	}
	utils.Success(ctx, gin.H{"items": teams})
}

// GetTeam returns one listing with its leader.
func (t *TeamController) GetTeam(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	team, err := t.store.GetTeam(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50071, "failed to load team")
		return
	}
	utils.Success(ctx, gin.H{"team": team})
}

// CreateTeam opens a listing led by the caller.
func (t *TeamController) CreateTeam(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Stage       string `json:"stage" binding:"required"`
		Size        int    `json:"size" binding:"required"`
		Equity      int    `json:"equity" binding:"required"`
		Roles       string `json:"roles" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}
	leaderID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	team, err := t.store.CreateTeam(ctx.Request.Context(), store.NewTeam{
		ProductName:        utils.PlainText(req.Name),
		ProductStage:       req.Stage,
		TeamSize:           req.Size,
		EquitySplit:        req.Equity,
		Roles:              utils.PlainText(req.Roles),
		ProductDescription: utils.PlainText(req.Description),
		LeaderID:           leaderID,
	})
	if err != nil {
		storeError(ctx, err, 50072, "failed to create team")
		return
	}
	utils.Success(ctx, gin.H{"team": team})
}

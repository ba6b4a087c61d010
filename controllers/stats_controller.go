package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/utils"
)

const statsCacheKey = "cache:stats"

// StatsController provides site-wide and per-post counters.
type StatsController struct {
	stats StatsStore
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(s StatsStore) *StatsController {
	return &StatsController{stats: s}
}

// GetStats returns row counts for profiles, posts, replies and products.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if utils.ServeCached(ctx, statsCacheKey) {
		return
	}
	st, err := s.stats.Stats(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, 50100, "failed to load stats")
		return
	}
	utils.SuccessCached(ctx, statsCacheKey, st, time.Minute)
}

// GetPostStats returns the upvote and reply counts of one post.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	st, err := s.stats.PostStats(ctx.Request.Context(), postID)
	if err != nil {
		storeError(ctx, err, 50101, "failed to load post stats")
		return
	}
	utils.Success(ctx, st)
}

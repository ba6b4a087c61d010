package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// PostController manages community topics and posts.
type PostController struct {
	store CommunityStore
}

// NewPostController creates a new PostController instance.
func NewPostController(s CommunityStore) *PostController {
	return &PostController{store: s}
}

// ListTopics returns every topic.
func (p *PostController) ListTopics(ctx *gin.Context) {
	if utils.ServeCached(ctx, "cache:topics") {
		return
	}
	topics, err := p.store.ListTopics(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, 50020, "failed to list topics")
		return
	}
	utils.SuccessCached(ctx, "cache:topics", gin.H{"items": topics}, time.Hour)
}

// CreateTopic adds a topic. Admin only.
func (p *PostController) CreateTopic(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=64"`
		Slug string `json:"slug" binding:"required,max=64"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	topic, err := p.store.CreateTopic(ctx.Request.Context(), utils.PlainText(req.Name), req.Slug)
	if err != nil {
		storeError(ctx, err, 50021, "failed to create topic")
		return
	}
	utils.InvalidateByPrefix(ctx.Request.Context(), "cache:topics")
	utils.Success(ctx, gin.H{"topic": topic})
}

// ListPosts returns one page of posts filtered by topic, period and keyword.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	q := store.PostQuery{
		Topic:    strings.TrimSpace(ctx.Query("topic")),
		Sorting:  strings.TrimSpace(ctx.DefaultQuery("sorting", store.SortNewest)),
		Period:   strings.TrimSpace(ctx.DefaultQuery("period", store.PeriodAll)),
		Keyword:  strings.TrimSpace(ctx.Query("keyword")),
		Page:     page,
		PageSize: pageSize,
	}

	// keyword searches are not cached to keep the key space small
	cacheKey := ""
	if q.Keyword == "" {
		cacheKey = fmt.Sprintf("cache:posts:list:topic=%s:sort=%s:period=%s:page=%d:size=%d",
			q.Topic, q.Sorting, q.Period, page, pageSize)
		if utils.ServeCached(ctx, cacheKey) {
			return
		}
	}

	result, err := p.store.ListPosts(ctx.Request.Context(), q)
	if err != nil {
		storeError(ctx, err, 50022, "failed to list posts")
		return
	}
	// period lists move as the day turns, so keep them short-lived
	if cacheKey != "" {
		utils.SuccessCached(ctx, cacheKey, result, 5*time.Minute)
		return
	}
	utils.Success(ctx, result)
}

// GetPost returns a single post with its topic, author and counters.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	post, err := p.store.GetPost(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50023, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreatePost allows authenticated members to start a discussion.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
		Topic   string `json:"topic" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}

	id, err := p.store.CreatePost(ctx.Request.Context(), store.NewPost{
		Title:     utils.PlainText(req.Title),
		Content:   utils.Sanitize(req.Content),
		TopicSlug: req.Topic,
		ProfileID: profileID,
	})
	if err != nil {
		storeError(ctx, err, 50024, "failed to create post")
		return
	}

	invalidatePostLists(ctx, profileID)
	utils.Success(ctx, gin.H{"post_id": id})
}

// DeletePost removes a post together with its replies and upvotes. Author or admin only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	actor, ok := actorOf(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	authorID, err := p.store.DeletePost(ctx.Request.Context(), id, actor)
	if err != nil {
		storeError(ctx, err, 50025, "failed to delete post")
		return
	}

	invalidatePostLists(ctx, authorID)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ToggleUpvote adds or removes the caller's upvote.
func (p *PostController) ToggleUpvote(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	upvoted, authorID, err := p.store.TogglePostUpvote(ctx.Request.Context(), id, profileID)
	if err != nil {
		storeError(ctx, err, 50026, "failed to toggle upvote")
		return
	}
	invalidatePostLists(ctx, authorID)
	utils.Success(ctx, gin.H{"upvoted": upvoted})
}

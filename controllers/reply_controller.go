package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// ReplyController serves the threaded replies under a community post. Reply lists are never cached
// so a client re-fetching right after posting sees its own reply.
type ReplyController struct {
	store ReplyStore
}

// NewReplyController creates a ReplyController.
func NewReplyController(s ReplyStore) *ReplyController {
	return &ReplyController{store: s}
}

// ListReplies returns the top-level replies of a post, each with its direct replies.
func (r *ReplyController) ListReplies(ctx *gin.Context) {
	replies, err := r.store.ListReplies(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		storeError(ctx, err, 50030, "failed to load replies")
		return
	}
	utils.Success(ctx, gin.H{"items": replies})
}

// CreateReply adds a reply to a post, or to one of its top-level replies when topLevelId is set.
// A topLevelId of 0 counts as unset.
func (r *ReplyController) CreateReply(ctx *gin.Context) {
	postID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Reply      string `json:"reply" binding:"required,max=1000"`
		TopLevelID *uint  `json:"topLevelId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "reply must be 1 to 1000 characters")
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	if req.TopLevelID != nil && *req.TopLevelID == 0 {
		req.TopLevelID = nil
	}

	reply, postAuthorID, err := r.store.CreateReply(ctx.Request.Context(), store.NewReply{
		PostID:     postID,
		ProfileID:  profileID,
		Text:       utils.PlainText(req.Reply),
		TopLevelID: req.TopLevelID,
	})
	if err != nil {
		storeError(ctx, err, 50031, "failed to create reply")
		return
	}
	// list rows carry reply counts
	invalidatePostLists(ctx, postAuthorID)
	utils.Success(ctx, gin.H{"reply": reply})
}

// DeleteReply removes a reply owned by the caller (or any reply, for admins).
func (r *ReplyController) DeleteReply(ctx *gin.Context) {
	replyID, ok := pathID(ctx, "replyId")
	if !ok {
		return
	}
	actor, ok := actorOf(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	postAuthorID, err := r.store.DeleteReply(ctx.Request.Context(), replyID, actor)
	if err != nil {
		storeError(ctx, err, 50032, "failed to delete reply")
		return
	}
	invalidatePostLists(ctx, postAuthorID)
	utils.Success(ctx, gin.H{"message": "reply deleted"})
}

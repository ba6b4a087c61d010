package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/middleware"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// invalidateCache is swapped in tests to observe invalidations.
var invalidateCache = utils.InvalidateByPrefix

// invalidatePostLists drops the cached community lists and the author's profile lists, which all
// carry upvote and reply counts.
func invalidatePostLists(ctx *gin.Context, authorID uint) {
	prefixes := []string{"cache:posts:list:"}
	if authorID != 0 {
		prefixes = append(prefixes, fmt.Sprintf("cache:profile:%d:", authorID))
	}
	invalidateCache(ctx.Request.Context(), prefixes...)
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = store.NormalizePage(p)
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func parseLimit(raw string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 && n <= 100 {
		return n
	}
	return def
}

func getProfileID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextProfileIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id > 0
}

func isAdmin(ctx *gin.Context) bool {
	return config.Get().IsAdmin(ctx.GetString(middleware.ContextUsernameKey))
}

func actorOf(ctx *gin.Context) (store.Actor, bool) {
	id, ok := getProfileID(ctx)
	if !ok {
		return store.Actor{}, false
	}
	return store.Actor{ProfileID: id, Admin: isAdmin(ctx)}, true
}

// requireProfile answers 401 when the request carries no authenticated profile.
func requireProfile(ctx *gin.Context) (uint, bool) {
	id, ok := getProfileID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return 0, false
	}
	return id, true
}

// pathID parses a numeric path parameter, answering 400 when it is malformed.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := store.ParseID(ctx.Param(name))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid "+name)
		return 0, false
	}
	return id, true
}

// storeError maps store errors onto the response envelope. serverCode is used for anything unexpected.
func storeError(ctx *gin.Context, err error, serverCode int, serverMsg string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid id")
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	case errors.Is(err, store.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only change your own content")
	case errors.Is(err, store.ErrEmptyReply):
		utils.Error(ctx, http.StatusBadRequest, 40030, "reply cannot be empty")
	case errors.Is(err, store.ErrInvalidParent):
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid parent reply")
	case errors.Is(err, store.ErrUnknownTopic):
		utils.Error(ctx, http.StatusBadRequest, 40022, "unknown topic")
	case errors.Is(err, store.ErrInvalidFilter):
		utils.Error(ctx, http.StatusBadRequest, 40011, err.Error())
	case errors.Is(err, store.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, 40012, err.Error())
	case errors.Is(err, store.ErrInvalidDate):
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid date")
	case errors.Is(err, store.ErrFutureDate):
		utils.Error(ctx, http.StatusBadRequest, 40041, "date is in the future")
	case errors.Is(err, store.ErrAlreadyClaimed):
		utils.Error(ctx, http.StatusConflict, 40902, "idea already claimed")
	case errors.Is(err, store.ErrDuplicate):
		utils.Error(ctx, http.StatusConflict, 40901, "already exists")
	default:
		utils.Sugar.Errorw(serverMsg, "path", ctx.FullPath(), "err", err)
		utils.Error(ctx, http.StatusInternalServerError, serverCode, serverMsg)
	}
}

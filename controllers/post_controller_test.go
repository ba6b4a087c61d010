package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upvoteStore implements only the upvote toggle; other calls panic.
type upvoteStore struct {
	CommunityStore
	author uint
	err    error
}

func (u *upvoteStore) TogglePostUpvote(_ context.Context, _, _ uint) (bool, uint, error) {
	if u.err != nil {
		return false, 0, u.err
	}
	return true, u.author, nil
}

func upvoteRouter(s CommunityStore) *gin.Engine {
	r := gin.New()
	r.POST("/posts/:id/upvote", asProfile(3, "carol"), NewPostController(s).ToggleUpvote)
	return r
}

func TestToggleUpvoteInvalidatesAuthorProfile(t *testing.T) {
	got := recordInvalidations(t)
	w := httptest.NewRecorder()
	upvoteRouter(&upvoteStore{author: 9}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts/7/upvote", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"code":0,"message":"success","data":{"upvoted":true}}`, w.Body.String())
	assert.Equal(t, []string{"cache:posts:list:", "cache:profile:9:"}, *got)
}

func TestToggleUpvoteFailureLeavesCache(t *testing.T) {
	got := recordInvalidations(t)
	w := httptest.NewRecorder()
	upvoteRouter(&upvoteStore{err: assert.AnError}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts/7/upvote", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, *got)
}

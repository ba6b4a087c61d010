package store

import (
	"context"

	"github.com/cppla/wemake/models"
)

// SiteStats are the row counts shown on the stats endpoint and exported as gauges.
type SiteStats struct {
	Profiles int64 `json:"profiles"`
	Posts    int64 `json:"posts"`
	Replies  int64 `json:"replies"`
	Products int64 `json:"products"`
}

// PostStats are the counters of one post.
type PostStats struct {
	Upvotes int64 `json:"upvotes"`
	Replies int64 `json:"replies"`
}

// Stats counts the main tables.
func (s *Store) Stats(ctx context.Context) (SiteStats, error) {
	var st SiteStats
	db := s.db.WithContext(ctx)
	for _, c := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Profile{}, &st.Profiles},
		{&models.Post{}, &st.Posts},
		{&models.PostReply{}, &st.Replies},
		{&models.Product{}, &st.Products},
	} {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return SiteStats{}, err
		}
	}
	return st, nil
}

// PostStats returns the upvote and reply counts of a post.
func (s *Store) PostStats(ctx context.Context, postID uint) (PostStats, error) {
	db := s.db.WithContext(ctx)
	if err := mustExist(db, &models.Post{}, "post_id", postID); err != nil {
		return PostStats{}, err
	}
	var st PostStats
	if err := db.Model(&models.PostUpvote{}).Where("post_id = ?", postID).Count(&st.Upvotes).Error; err != nil {
		return PostStats{}, err
	}
	replies, err := s.CountReplies(ctx, postID)
	if err != nil {
		return PostStats{}, err
	}
	st.Replies = replies
	return st, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/wemake/models"
)

// Reply is a second-level reply, or the common part of a top-level one. It has no children.
type Reply struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

// TopLevelReply is a reply attached directly to a post together with its direct replies.
type TopLevelReply struct {
	Reply
	Replies []Reply `json:"replies"`
}

// NewReply is the input of CreateReply. TopLevelID set means a reply to that top-level reply.
type NewReply struct {
	PostID     uint
	ProfileID  uint
	Text       string
	TopLevelID *uint
}

// ListReplies returns the top-level replies of a post, newest first, each with its direct
// replies oldest first. Deeper rows are never returned.
func (s *Store) ListReplies(ctx context.Context, rawPostID string) ([]TopLevelReply, error) {
	postID, err := ParseID(rawPostID)
	if err != nil {
		return nil, err
	}

	var rows []models.PostReply
	err = s.db.WithContext(ctx).
		Preload("Profile").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, post_reply_id ASC")
		}).
		Preload("Children.Profile").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC, post_reply_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return buildThread(rows), nil
}

// CreateReply stores a reply and returns it with the post's author. A top-level reply carries only
// post_id; a nested reply carries only parent_id, and its parent must be a top-level reply of the
// same post.
func (s *Store) CreateReply(ctx context.Context, in NewReply) (Reply, uint, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return Reply{}, 0, ErrEmptyReply
	}
	if in.PostID == 0 || in.ProfileID == 0 {
		return Reply{}, 0, ErrInvalidID
	}

	db := s.db.WithContext(ctx)
	postAuthorID, err := postAuthor(db, in.PostID)
	if err != nil {
		return Reply{}, 0, err
	}
	row := models.PostReply{ProfileID: in.ProfileID, Reply: text}
	if in.TopLevelID != nil {
		var parent models.PostReply
		if err := db.Select("post_reply_id", "post_id", "parent_id").
			Where("post_reply_id = ?", *in.TopLevelID).
			Take(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Reply{}, 0, fmt.Errorf("%w: reply %d does not exist", ErrInvalidParent, *in.TopLevelID)
			}
			return Reply{}, 0, err
		}
		if !parent.IsTopLevel() || *parent.PostID != in.PostID {
			return Reply{}, 0, ErrInvalidParent
		}
		row.ParentID = &parent.ID
	} else {
		postID := in.PostID
		row.PostID = &postID
	}

	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return Reply{}, 0, err
	}

	var author Author
	if err := db.Model(&models.Profile{}).
		Select("name", "username", "avatar").
		Where("profile_id = ?", in.ProfileID).
		Take(&author).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Reply{}, 0, err
	}
	return Reply{ID: row.ID, Text: row.Reply, CreatedAt: row.CreatedAt, Author: author}, postAuthorID, nil
}

// DeleteReply removes a reply owned by the actor. Removing a top-level reply removes its replies too.
// It returns the author of the post the reply belonged to, or zero when that post is gone.
func (s *Store) DeleteReply(ctx context.Context, replyID uint, actor Actor) (uint, error) {
	db := s.db.WithContext(ctx)
	var row models.PostReply
	if err := db.Where("post_reply_id = ?", replyID).Take(&row).Error; err != nil {
		return 0, translate(err)
	}
	if !actor.Owns(row.ProfileID) {
		return 0, ErrForbidden
	}

	postID := row.PostID
	if postID == nil && row.ParentID != nil {
		var parent models.PostReply
		err := db.Select("post_reply_id", "post_id").Where("post_reply_id = ?", *row.ParentID).Take(&parent).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		postID = parent.PostID
	}
	var authorID uint
	if postID != nil {
		var err error
		if authorID, err = postAuthor(db, *postID); err != nil && !errors.Is(err, ErrNotFound) {
			return 0, err
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if row.ParentID == nil {
			if err := tx.Where("parent_id = ?", row.ID).Delete(&models.PostReply{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("post_reply_id = ?", row.ID).Delete(&models.PostReply{}).Error
	})
	if err != nil {
		return 0, err
	}
	return authorID, nil
}

// CountReplies counts the top-level replies of a post plus their direct replies.
func (s *Store) CountReplies(ctx context.Context, postID uint) (int64, error) {
	db := s.db.WithContext(ctx)
	topLevel := db.Model(&models.PostReply{}).Select("post_reply_id").Where("post_id = ?", postID)

	var n int64
	err := db.Model(&models.PostReply{}).
		Where("post_id = ?", postID).
		Or("parent_id IN (?)", topLevel).
		Count(&n).Error
	return n, err
}

func buildThread(rows []models.PostReply) []TopLevelReply {
	return lo.Map(rows, func(row models.PostReply, _ int) TopLevelReply {
		return TopLevelReply{
			Reply: toReply(row),
			Replies: lo.Map(row.Children, func(child models.PostReply, _ int) Reply {
				return toReply(child)
			}),
		}
	})
}

func toReply(row models.PostReply) Reply {
	return Reply{
		ID:        row.ID,
		Text:      row.Reply,
		CreatedAt: row.CreatedAt,
		Author: Author{
			Name:     row.Profile.Name,
			Username: row.Profile.Username,
			Avatar:   row.Profile.Avatar,
		},
	}
}

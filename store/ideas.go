package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/wemake/models"
)

// IdeaSummary is an idea with its like count.
type IdeaSummary struct {
	ID        uint       `gorm:"column:gpt_idea_id" json:"gpt_idea_id"`
	Idea      string     `gorm:"column:idea" json:"idea"`
	Views     int64      `gorm:"column:views" json:"views"`
	Likes     int64      `gorm:"column:likes" json:"likes"`
	ClaimedAt *time.Time `gorm:"column:claimed_at" json:"claimed_at"`
	ClaimedBy *uint      `gorm:"column:claimed_by" json:"claimed_by"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
}

const ideaColumns = "gpt_ideas.gpt_idea_id, gpt_ideas.idea, gpt_ideas.views, gpt_ideas.claimed_at, " +
	"gpt_ideas.claimed_by, gpt_ideas.created_at, " +
	"(SELECT COUNT(*) FROM gpt_ideas_likes l WHERE l.gpt_idea_id = gpt_ideas.gpt_idea_id) AS likes"

// ListIdeas returns unclaimed ideas, newest first.
func (s *Store) ListIdeas(ctx context.Context, limit int) ([]IdeaSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ideas := []IdeaSummary{}
	err := s.db.WithContext(ctx).Model(&models.GptIdea{}).
		Select(ideaColumns).
		Where("gpt_ideas.claimed_at IS NULL").
		Order("gpt_ideas.created_at DESC, gpt_ideas.gpt_idea_id DESC").
		Limit(limit).
		Scan(&ideas).Error
	return ideas, err
}

// ClaimedIdeas lists the ideas a profile has claimed.
func (s *Store) ClaimedIdeas(ctx context.Context, profileID uint) ([]IdeaSummary, error) {
	ideas := []IdeaSummary{}
	err := s.db.WithContext(ctx).Model(&models.GptIdea{}).
		Select(ideaColumns).
		Where("gpt_ideas.claimed_by = ?", profileID).
		Order("gpt_ideas.claimed_at DESC").
		Scan(&ideas).Error
	return ideas, err
}

// GetIdea loads an idea and then counts the view.
func (s *Store) GetIdea(ctx context.Context, id uint) (IdeaSummary, error) {
	var ideas []IdeaSummary
	err := s.db.WithContext(ctx).Model(&models.GptIdea{}).
		Select(ideaColumns).
		Where("gpt_ideas.gpt_idea_id = ?", id).
		Limit(1).
		Scan(&ideas).Error
	if err != nil {
		return IdeaSummary{}, err
	}
	if len(ideas) == 0 {
		return IdeaSummary{}, ErrNotFound
	}
	if err := s.db.WithContext(ctx).Model(&models.GptIdea{}).
		Where("gpt_idea_id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return IdeaSummary{}, err
	}
	idea := ideas[0]
	idea.Views++
	return idea, nil
}

// ClaimIdea assigns an unclaimed idea to the profile. Claiming a claimed idea is ErrAlreadyClaimed.
func (s *Store) ClaimIdea(ctx context.Context, id, profileID uint) error {
	now := s.clock.now().UTC()
	res := s.db.WithContext(ctx).Model(&models.GptIdea{}).
		Where("gpt_idea_id = ? AND claimed_at IS NULL", id).
		Updates(map[string]interface{}{"claimed_at": now, "claimed_by": profileID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if err := mustExist(s.db.WithContext(ctx), &models.GptIdea{}, "gpt_idea_id", id); err != nil {
		return err
	}
	return ErrAlreadyClaimed
}

// ToggleIdeaLike adds or removes the profile's like and reports the new state.
func (s *Store) ToggleIdeaLike(ctx context.Context, id, profileID uint) (bool, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.GptIdea{}, "gpt_idea_id", id); err != nil {
			return err
		}
		res := tx.Where("gpt_idea_id = ? AND profile_id = ?", id, profileID).Delete(&models.GptIdeaLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Create(&models.GptIdeaLike{GptIdeaID: id, ProfileID: profileID}).Error; err != nil && !IsDuplicateKey(err) {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

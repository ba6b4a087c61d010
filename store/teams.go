package store

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/wemake/models"
)

// NewTeam is the input of CreateTeam.
type NewTeam struct {
	ProductName        string
	ProductStage       string
	TeamSize           int
	EquitySplit        int
	Roles              string
	ProductDescription string
	LeaderID           uint
}

// ListTeams returns the newest team listings with their leaders.
func (s *Store) ListTeams(ctx context.Context, limit int) ([]models.Team, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	teams := []models.Team{}
	err := s.db.WithContext(ctx).
		Preload("TeamLeader", func(db *gorm.DB) *gorm.DB {
			return db.Select("profile_id", "name", "username", "avatar", "role")
		}).
		Order("created_at DESC, team_id DESC").
		Limit(limit).
		Find(&teams).Error
	return teams, err
}

// GetTeam loads one team with its leader.
func (s *Store) GetTeam(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Preload("TeamLeader").Where("team_id = ?", id).Take(&team).Error
	return team, translate(err)
}

// CreateTeam validates and stores a team listing.
func (s *Store) CreateTeam(ctx context.Context, in NewTeam) (models.Team, error) {
	team := models.Team{
		ProductName:        strings.TrimSpace(in.ProductName),
		ProductStage:       strings.TrimSpace(in.ProductStage),
		TeamSize:           in.TeamSize,
		EquitySplit:        in.EquitySplit,
		Roles:              strings.TrimSpace(in.Roles),
		ProductDescription: strings.TrimSpace(in.ProductDescription),
		TeamLeaderID:       in.LeaderID,
	}
	switch n := utf8.RuneCountInString(team.ProductName); {
	case n < 1 || n > 20:
		return models.Team{}, fmt.Errorf("%w: product name must be 1 to 20 characters", ErrInvalidInput)
	case !lo.Contains(models.ProductStages, team.ProductStage):
		return models.Team{}, fmt.Errorf("%w: product stage %q", ErrInvalidInput, team.ProductStage)
	case team.TeamSize < 1 || team.TeamSize > 100:
		return models.Team{}, fmt.Errorf("%w: team size must be between 1 and 100", ErrInvalidInput)
	case team.EquitySplit < 1 || team.EquitySplit > 100:
		return models.Team{}, fmt.Errorf("%w: equity split must be between 1 and 100", ErrInvalidInput)
	case team.Roles == "":
		return models.Team{}, fmt.Errorf("%w: roles are required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(team.ProductDescription); n < 1 || n > 200 {
		return models.Team{}, fmt.Errorf("%w: description must be 1 to 200 characters", ErrInvalidInput)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&team).Error; err != nil {
		return models.Team{}, err
	}
	return team, nil
}

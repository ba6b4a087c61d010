package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/wemake/models"
)

var defaultTopics = []models.Topic{
	{Name: "AI Tools", Slug: "ai-tools"},
	{Name: "Design", Slug: "design"},
	{Name: "Dev Tools", Slug: "dev-tools"},
	{Name: "Note-Taking", Slug: "note-taking"},
	{Name: "Productivity", Slug: "productivity"},
}

var defaultCategories = []models.Category{
	{Name: "SaaS", Description: "Software delivered as a service"},
	{Name: "AI", Description: "Products built around machine learning"},
	{Name: "Developer Tools", Description: "Tools for people who write software"},
	{Name: "Productivity", Description: "Get more done with less"},
	{Name: "Design", Description: "Tools for designers"},
}

// SeedDefaults inserts the default topics and categories into empty tables.
func (s *Store) SeedDefaults(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedIfEmpty(tx, &models.Topic{}, &defaultTopics); err != nil {
			return err
		}
		return seedIfEmpty(tx, &models.Category{}, &defaultCategories)
	})
}

func seedIfEmpty[T any](tx *gorm.DB, model interface{}, rows *[]T) error {
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	seeded := append([]T(nil), *rows...)
	return tx.Create(&seeded).Error
}

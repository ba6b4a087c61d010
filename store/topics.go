package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cppla/wemake/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ListTopics returns every topic ordered by name.
func (s *Store) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics := []models.Topic{}
	err := s.db.WithContext(ctx).Order("name ASC").Find(&topics).Error
	return topics, err
}

// TopicBySlug looks a topic up by slug. A missing topic is ErrUnknownTopic.
func (s *Store) TopicBySlug(ctx context.Context, slug string) (models.Topic, error) {
	var topic models.Topic
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return topic, ErrUnknownTopic
	}
	err := s.db.WithContext(ctx).Where("slug = ?", slug).Take(&topic).Error
	if err = translate(err); err == ErrNotFound {
		return topic, fmt.Errorf("%w: %s", ErrUnknownTopic, slug)
	}
	return topic, err
}

// CreateTopic adds a topic. Slugs are lowercase letters, digits and dashes.
func (s *Store) CreateTopic(ctx context.Context, name, slug string) (models.Topic, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" || len(name) > 64 {
		return models.Topic{}, fmt.Errorf("%w: topic name must be 1 to 64 characters", ErrInvalidInput)
	}
	if !slugPattern.MatchString(slug) || len(slug) > 64 {
		return models.Topic{}, fmt.Errorf("%w: slug %q", ErrInvalidInput, slug)
	}
	topic := models.Topic{Name: name, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&topic).Error; err != nil {
		return models.Topic{}, translate(err)
	}
	return topic, nil
}

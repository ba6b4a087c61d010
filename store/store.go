package store

import (
	"time"

	"gorm.io/gorm"
)

// DefaultPageSize is the leaderboard page size used when none is configured.
const DefaultPageSize = 7

// Options tunes a Store. Zero values fall back to UTC, DefaultPageSize and time.Now.
type Options struct {
	Location            *time.Location
	LeaderboardPageSize int
	Now                 func() time.Time
}

// Store is the data access layer. It owns no connection of its own; the *gorm.DB passed to New
// is shared by every request.
type Store struct {
	db       *gorm.DB
	clock    Clock
	pageSize int
}

// New wraps db with the given options.
func New(db *gorm.DB, opts Options) *Store {
	size := opts.LeaderboardPageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Store{
		db:       db,
		clock:    Clock{Loc: opts.Location, Now: opts.Now},
		pageSize: size,
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB { return s.db }

// Clock returns the calendar used for leaderboard and period windows.
func (s *Store) Clock() Clock { return s.clock }

// PageSize returns the leaderboard page size.
func (s *Store) PageSize() int { return s.pageSize }

// Actor identifies who is performing a mutation.
type Actor struct {
	ProfileID uint
	Admin     bool
}

// Owns reports whether the actor may change a row owned by profileID.
func (a Actor) Owns(profileID uint) bool {
	return a.Admin || (a.ProfileID != 0 && a.ProfileID == profileID)
}

// Author is the public face of a profile attached to posts, replies, reviews and teams.
type Author struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

package controllers

import (
	"context"

	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
)

// The controllers depend on these narrow views of *store.Store so handlers can be tested with fakes.

// ReplyStore reads and writes threaded replies.
type ReplyStore interface {
	ListReplies(ctx context.Context, postID string) ([]store.TopLevelReply, error)
	CreateReply(ctx context.Context, in store.NewReply) (store.Reply, uint, error)
	DeleteReply(ctx context.Context, replyID uint, actor store.Actor) (uint, error)
}

// CommunityStore reads and writes topics and posts.
type CommunityStore interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateTopic(ctx context.Context, name, slug string) (models.Topic, error)
	ListPosts(ctx context.Context, q store.PostQuery) (store.Page[store.PostSummary], error)
	GetPost(ctx context.Context, id uint) (store.PostSummary, error)
	CreatePost(ctx context.Context, in store.NewPost) (uint, error)
	DeletePost(ctx context.Context, id uint, actor store.Actor) (uint, error)
	TogglePostUpvote(ctx context.Context, postID, profileID uint) (bool, uint, error)
}

// ProductStore serves products, leaderboards, reviews and categories.
type ProductStore interface {
	Clock() store.Clock
	LeaderboardPage(ctx context.Context, w store.Window, page int) (store.Page[models.Product], error)
	LeaderboardOverview(ctx context.Context) (store.Leaderboard, error)
	ListProducts(ctx context.Context, page, size int) (store.Page[models.Product], error)
	SearchProducts(ctx context.Context, query string, page, size int) (store.Page[models.Product], error)
	ProductsByCategory(ctx context.Context, categoryID uint, page, size int) (store.Page[models.Product], error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	CreateProduct(ctx context.Context, in store.NewProduct) (models.Product, error)
	ToggleProductUpvote(ctx context.Context, productID, profileID uint) (bool, error)
	IncrementProductViews(ctx context.Context, productID uint) error
	ListReviews(ctx context.Context, productID uint) ([]models.Review, error)
	CreateReview(ctx context.Context, in store.NewReview) (models.Review, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (models.Category, error)
}

// JobStore serves the job board.
type JobStore interface {
	ListJobs(ctx context.Context, f store.JobFilter) ([]models.Job, error)
	GetJob(ctx context.Context, id uint) (models.Job, error)
	CreateJob(ctx context.Context, job models.Job) (models.Job, error)
}

// TeamStore serves team listings.
type TeamStore interface {
	ListTeams(ctx context.Context, limit int) ([]models.Team, error)
	GetTeam(ctx context.Context, id uint) (models.Team, error)
	CreateTeam(ctx context.Context, in store.NewTeam) (models.Team, error)
}

// IdeaStore serves generated ideas.
type IdeaStore interface {
	ListIdeas(ctx context.Context, limit int) ([]store.IdeaSummary, error)
	ClaimedIdeas(ctx context.Context, profileID uint) ([]store.IdeaSummary, error)
	GetIdea(ctx context.Context, id uint) (store.IdeaSummary, error)
	ClaimIdea(ctx context.Context, id, profileID uint) error
	ToggleIdeaLike(ctx context.Context, id, profileID uint) (bool, error)
}

// ProfileStore serves accounts and public profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	ProfileByID(ctx context.Context, id uint) (models.Profile, error)
	ProfileByUsername(ctx context.Context, username string) (models.Profile, error)
	ProfileByLogin(ctx context.Context, login string) (models.Profile, error)
	FindOrCreateProfile(ctx context.Context, id store.Identity) (models.Profile, error)
	UpdateProfile(ctx context.Context, id uint, u store.ProfileUpdate) (models.Profile, error)
	ProductsByProfile(ctx context.Context, profileID uint) ([]models.Product, error)
	ListPosts(ctx context.Context, q store.PostQuery) (store.Page[store.PostSummary], error)
}

// StatsStore serves counters.
type StatsStore interface {
	Stats(ctx context.Context) (store.SiteStats, error)
	PostStats(ctx context.Context, postID uint) (store.PostStats, error)
}

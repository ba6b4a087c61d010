package store

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/wemake/models"
)

// Post list sortings and periods accepted by ListPosts.
const (
	SortNewest  = "newest"
	SortPopular = "popular"

	PeriodAll   = "all"
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

const (
	maxPostTitle   = 40
	maxPostContent = 1000
	defaultPosts   = 20
	maxPostsPage   = 100
)

// psql uses "?" everywhere; gorm rebinds placeholders for the active dialect.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// PostQuery filters the community post list. Empty strings mean no filter.
type PostQuery struct {
	Topic    string
	Sorting  string
	Period   string
	Keyword  string
	Author   string
	Page     int
	PageSize int
}

// PostSummary is one row of the community post list.
type PostSummary struct {
	ID        uint      `gorm:"column:post_id" json:"post_id"`
	Title     string    `gorm:"column:title" json:"title"`
	Content   string    `gorm:"column:content" json:"content"`
	ProfileID uint      `gorm:"column:profile_id" json:"profile_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	TopicName string    `gorm:"column:topic_name" json:"topic"`
	TopicSlug string    `gorm:"column:topic_slug" json:"topic_slug"`
	Author    Author    `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Upvotes   int64     `gorm:"column:upvotes" json:"upvotes"`
	Replies   int64     `gorm:"column:replies" json:"replies"`
}

// NewPost is the input of CreatePost.
type NewPost struct {
	Title     string
	Content   string
	TopicSlug string
	ProfileID uint
}

// ListPosts returns one page of community posts matching q.
func (s *Store) ListPosts(ctx context.Context, q PostQuery) (Page[PostSummary], error) {
	filtered, err := s.postFilter(q)
	if err != nil {
		return Page[PostSummary]{}, err
	}
	size := q.PageSize
	if size <= 0 {
		size = defaultPosts
	}
	if size > maxPostsPage {
		size = maxPostsPage
	}
	page := NormalizePage(q.Page)

	order := "p.created_at DESC, p.post_id DESC"
	if q.Sorting == SortPopular {
		order = "upvotes DESC, p.post_id DESC"
	}

	countSQL, countArgs, err := filtered.Columns("COUNT(*)").ToSql()
	if err != nil {
		return Page[PostSummary]{}, err
	}
	var total int64
	if err := s.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return Page[PostSummary]{}, err
	}

	listSQL, listArgs, err := withPostColumns(filtered).
		OrderBy(order).
		Limit(uint64(size)).
		Offset(uint64(Offset(page, size))).
		ToSql()
	if err != nil {
		return Page[PostSummary]{}, err
	}
	items := make([]PostSummary, 0, size)
	if err := s.db.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&items).Error; err != nil {
		return Page[PostSummary]{}, err
	}
	return Page[PostSummary]{Items: items, Pagination: newPagination(page, size, total)}, nil
}

// GetPost returns a single post with its topic, author and counters.
func (s *Store) GetPost(ctx context.Context, id uint) (PostSummary, error) {
	query, args, err := withPostColumns(postBase()).
		Where(sq.Eq{"p.post_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return PostSummary{}, err
	}
	var rows []PostSummary
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return PostSummary{}, err
	}
	if len(rows) == 0 {
		return PostSummary{}, ErrNotFound
	}
	return rows[0], nil
}

// CreatePost stores a post under the topic named by slug and returns its id.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (uint, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || utf8.RuneCountInString(title) > maxPostTitle {
		return 0, fmt.Errorf("%w: title must be 1 to %d characters", ErrInvalidInput, maxPostTitle)
	}
	if content == "" || utf8.RuneCountInString(content) > maxPostContent {
		return 0, fmt.Errorf("%w: content must be 1 to %d characters", ErrInvalidInput, maxPostContent)
	}

	topic, err := s.TopicBySlug(ctx, in.TopicSlug)
	if err != nil {
		return 0, err
	}
	post := models.Post{Title: title, Content: content, TopicID: topic.ID, ProfileID: in.ProfileID}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

// DeletePost removes a post with its replies and upvotes in one transaction. The post's author is
// returned so callers can invalidate per-author caches.
func (s *Store) DeletePost(ctx context.Context, id uint, actor Actor) (uint, error) {
	authorID, err := postAuthor(s.db.WithContext(ctx), id)
	if err != nil {
		return 0, err
	}
	if !actor.Owns(authorID) {
		return 0, ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topLevel []uint
		if err := tx.Model(&models.PostReply{}).Where("post_id = ?", id).Pluck("post_reply_id", &topLevel).Error; err != nil {
			return err
		}
		if len(topLevel) > 0 {
			if err := tx.Where("parent_id IN ?", topLevel).Delete(&models.PostReply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&models.PostReply{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostUpvote{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", id).Delete(&models.Post{}).Error
	})
	if err != nil {
		return 0, err
	}
	return authorID, nil
}

// TogglePostUpvote adds the profile's upvote or removes it when present. It reports the new state
// and the post's author.
func (s *Store) TogglePostUpvote(ctx context.Context, postID, profileID uint) (upvoted bool, authorID uint, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if authorID, err = postAuthor(tx, postID); err != nil {
			return err
		}
		res := tx.Where("post_id = ? AND profile_id = ?", postID, profileID).Delete(&models.PostUpvote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			upvoted = false
			return nil
		}
		if err := tx.Create(&models.PostUpvote{PostID: postID, ProfileID: profileID}).Error; err != nil && !IsDuplicateKey(err) {
			return err
		}
		upvoted = true
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return upvoted, authorID, nil
}

// postFilter validates q and returns the filtered FROM/WHERE part without columns.
func (s *Store) postFilter(q PostQuery) (sq.SelectBuilder, error) {
	switch q.Sorting {
	case "", SortNewest, SortPopular:
	default:
		return sq.SelectBuilder{}, fmt.Errorf("%w: sorting %q", ErrInvalidFilter, q.Sorting)
	}

	b := postBase()
	if topic := strings.TrimSpace(q.Topic); topic != "" {
		b = b.Where(sq.Eq{"t.slug": topic})
	}
	if author := strings.TrimSpace(q.Author); author != "" {
		b = b.Where(sq.Eq{"pr.username": author})
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		pattern := "%" + kw + "%"
		b = b.Where(sq.Or{sq.Like{"p.title": pattern}, sq.Like{"p.content": pattern}})
	}

	var since Window
	switch q.Period {
	case "", PeriodAll:
		return b, nil
	case PeriodToday:
		since = s.clock.Today()
	case PeriodWeek:
		since = s.clock.ThisWeek()
	case PeriodMonth:
		since = s.clock.ThisMonth()
	case PeriodYear:
		since = s.clock.ThisYear()
	default:
		return sq.SelectBuilder{}, fmt.Errorf("%w: period %q", ErrInvalidFilter, q.Period)
	}
	return b.Where(sq.GtOrEq{"p.created_at": since.Start.UTC()}), nil
}

func postBase() sq.SelectBuilder {
	return psql.Select().
		From("posts p").
		Join("topics t ON t.topic_id = p.topic_id").
		Join("profiles pr ON pr.profile_id = p.profile_id")
}

func withPostColumns(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Columns(
		"p.post_id",
		"p.title",
		"p.content",
		"p.profile_id",
		"p.created_at",
		"t.name AS topic_name",
		"t.slug AS topic_slug",
		"pr.name AS author_name",
		"pr.username AS author_username",
		"pr.avatar AS author_avatar",
		"(SELECT COUNT(*) FROM post_upvotes u WHERE u.post_id = p.post_id) AS upvotes",
		"(SELECT COUNT(*) FROM post_replies r WHERE r.post_id = p.post_id"+
			" OR r.parent_id IN (SELECT r2.post_reply_id FROM post_replies r2 WHERE r2.post_id = p.post_id)) AS replies",
	)
}

// mustExist returns ErrNotFound when no row of model has column = id.
// postAuthor returns the profile that wrote the post. A missing post is ErrNotFound.
func postAuthor(db *gorm.DB, postID uint) (uint, error) {
	var post models.Post
	if err := db.Select("post_id", "profile_id").Where("post_id = ?", postID).Take(&post).Error; err != nil {
		return 0, translate(err)
	}
	return post.ProfileID, nil
}

func mustExist(db *gorm.DB, model interface{}, column string, id uint) error {
	var n int64
	if err := db.Model(model).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

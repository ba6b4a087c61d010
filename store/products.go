package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/wemake/models"
)

// Leaderboard is the overview page: the first page of each current period.
type Leaderboard struct {
	Daily   []models.Product `json:"daily"`
	Weekly  []models.Product `json:"weekly"`
	Monthly []models.Product `json:"monthly"`
	Yearly  []models.Product `json:"yearly"`
}

// NewProduct is the input of CreateProduct.
type NewProduct struct {
	Name        string
	Tagline     string
	Description string
	HowItWorks  string
	Icon        string
	URL         string
	CategoryID  *uint
	ProfileID   uint
}

// NewReview is the input of CreateReview.
type NewReview struct {
	ProductID uint
	ProfileID uint
	Rating    int
	Text      string
}

// ProductsByWindow returns one leaderboard page of products created inside w, ordered by
// upvote count then id, both descending.
func (s *Store) ProductsByWindow(ctx context.Context, w Window, page int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.windowQuery(ctx, w).
		Order("upvotes DESC, product_id DESC").
		Offset(Offset(page, s.pageSize)).
		Limit(s.pageSize).
		Find(&products).Error
	return products, err
}

// CountProductsByWindow counts the products created inside w.
func (s *Store) CountProductsByWindow(ctx context.Context, w Window) (int64, error) {
	var n int64
	err := s.windowQuery(ctx, w).Count(&n).Error
	return n, err
}

// LeaderboardPage combines ProductsByWindow and CountProductsByWindow.
func (s *Store) LeaderboardPage(ctx context.Context, w Window, page int) (Page[models.Product], error) {
	total, err := s.CountProductsByWindow(ctx, w)
	if err != nil {
		return Page[models.Product]{}, err
	}
	items, err := s.ProductsByWindow(ctx, w, page)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return Page[models.Product]{Items: items, Pagination: newPagination(page, s.pageSize, total)}, nil
}

// LeaderboardOverview returns the top products of today, this week, this month and this year.
func (s *Store) LeaderboardOverview(ctx context.Context) (Leaderboard, error) {
	var board Leaderboard
	sections := []struct {
		w   Window
		dst *[]models.Product
	}{
		{s.clock.Today(), &board.Daily},
		{s.clock.ThisWeek(), &board.Weekly},
		{s.clock.ThisMonth(), &board.Monthly},
		{s.clock.ThisYear(), &board.Yearly},
	}
	for _, sec := range sections {
		items, err := s.ProductsByWindow(ctx, sec.w, 1)
		if err != nil {
			return Leaderboard{}, err
		}
		*sec.dst = items
	}
	return board, nil
}

func (s *Store) windowQuery(ctx context.Context, w Window) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("created_at >= ? AND created_at < ?", w.Start.UTC(), w.End.UTC())
}

// ListProducts returns the newest products.
func (s *Store) ListProducts(ctx context.Context, page, size int) (Page[models.Product], error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	return paginate[models.Product](q, page, size, "created_at DESC, product_id DESC")
}

// SearchProducts matches the query against product names and taglines.
func (s *Store) SearchProducts(ctx context.Context, query string, page, size int) (Page[models.Product], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[models.Product]{Items: []models.Product{}, Pagination: newPagination(page, size, 0)}, nil
	}
	pattern := "%" + query + "%"
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("name LIKE ? OR tagline LIKE ?", pattern, pattern)
	return paginate[models.Product](q, page, size, "upvotes DESC, product_id DESC")
}

// ProductsByCategory lists a category's products, newest first.
func (s *Store) ProductsByCategory(ctx context.Context, categoryID uint, page, size int) (Page[models.Product], error) {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID)
	return paginate[models.Product](q, page, size, "created_at DESC, product_id DESC")
}

// ProductsByProfile lists the products a profile launched.
func (s *Store) ProductsByProfile(ctx context.Context, profileID uint) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Order("created_at DESC").Find(&products).Error
	return products, err
}

// GetProduct loads a product with its maker and category.
func (s *Store) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Profile").Preload("Category").Where("product_id = ?", id).Take(&product).Error
	return product, translate(err)
}

// CreateProduct stores a product with zeroed counters.
func (s *Store) CreateProduct(ctx context.Context, in NewProduct) (models.Product, error) {
	product := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Tagline:     strings.TrimSpace(in.Tagline),
		Description: strings.TrimSpace(in.Description),
		HowItWorks:  strings.TrimSpace(in.HowItWorks),
		Icon:        strings.TrimSpace(in.Icon),
		URL:         strings.TrimSpace(in.URL),
		CategoryID:  in.CategoryID,
		ProfileID:   in.ProfileID,
	}
	switch {
	case product.Name == "" || utf8.RuneCountInString(product.Name) > 100:
		return models.Product{}, fmt.Errorf("%w: name must be 1 to 100 characters", ErrInvalidInput)
	case product.Tagline == "" || utf8.RuneCountInString(product.Tagline) > 60:
		return models.Product{}, fmt.Errorf("%w: tagline must be 1 to 60 characters", ErrInvalidInput)
	case product.Description == "" || product.HowItWorks == "":
		return models.Product{}, fmt.Errorf("%w: description and how it works are required", ErrInvalidInput)
	case !validURL(product.URL):
		return models.Product{}, fmt.Errorf("%w: url", ErrInvalidInput)
	}

	db := s.db.WithContext(ctx)
	if in.CategoryID != nil {
		if err := mustExist(db, &models.Category{}, "category_id", *in.CategoryID); err != nil {
			return models.Product{}, fmt.Errorf("%w: unknown category", ErrInvalidInput)
		}
	}
	if err := db.Omit(clause.Associations).Create(&product).Error; err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// ToggleProductUpvote flips the profile's upvote and moves the upvotes counter with it.
func (s *Store) ToggleProductUpvote(ctx context.Context, productID, profileID uint) (bool, error) {
	var upvoted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Product{}, "product_id", productID); err != nil {
			return err
		}
		res := tx.Where("product_id = ? AND profile_id = ?", productID, profileID).Delete(&models.ProductUpvote{})
		if res.Error != nil {
			return res.Error
		}
		delta := 1
		upvoted = true
		if res.RowsAffected > 0 {
			delta = -1
			upvoted = false
		} else if err := tx.Create(&models.ProductUpvote{ProductID: productID, ProfileID: profileID}).Error; err != nil {
			return translate(err)
		}
		return tx.Model(&models.Product{}).
			Where("product_id = ?", productID).
			UpdateColumn("upvotes", gorm.Expr("upvotes + ?", delta)).Error
	})
	return upvoted, err
}

// IncrementProductViews bumps the views counter.
func (s *Store) IncrementProductViews(ctx context.Context, productID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("product_id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReviews returns a product's reviews, newest first, with their authors.
func (s *Store) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).Preload("Profile").
		Where("product_id = ?", productID).
		Order("created_at DESC, review_id DESC").
		Find(&reviews).Error
	return reviews, err
}

// CreateReview stores a review and bumps the product's reviews counter. A profile reviews a
// product at most once; a second attempt is ErrDuplicate.
func (s *Store) CreateReview(ctx context.Context, in NewReview) (models.Review, error) {
	text := strings.TrimSpace(in.Text)
	if in.Rating < 1 || in.Rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if text == "" || utf8.RuneCountInString(text) > 1000 {
		return models.Review{}, fmt.Errorf("%w: review must be 1 to 1000 characters", ErrInvalidInput)
	}
	review := models.Review{ProductID: in.ProductID, ProfileID: in.ProfileID, Rating: in.Rating, Review: text}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Product{}, "product_id", in.ProductID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&review).Error; err != nil {
			return translate(err)
		}
		return tx.Model(&models.Product{}).
			Where("product_id = ?", in.ProductID).
			UpdateColumn("reviews", gorm.Expr("reviews + 1")).Error
	})
	if err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetCategory loads one category.
func (s *Store) GetCategory(ctx context.Context, id uint) (models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("category_id = ?", id).Take(&category).Error
	return category, translate(err)
}

// paginate counts q then loads one page of it. q must already carry its model and filters.
func paginate[T any](q *gorm.DB, page, size int, order string) (Page[T], error) {
	if size <= 0 {
		size = defaultPosts
	}
	page = NormalizePage(page)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}
	items := []T{}
	if err := q.Session(&gorm.Session{}).Order(order).Offset(Offset(page, size)).Limit(size).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Pagination: newPagination(page, size, total)}, nil
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

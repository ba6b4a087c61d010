package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/wemake/models"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

const (
	leaderboardCachePrefix = "cache:leaderboard:"
	productCachePrefix     = "cache:product:"
)

// ProductController serves products, leaderboards, reviews and categories.
type ProductController struct {
	store ProductStore
}

// NewProductController creates a ProductController.
func NewProductController(s ProductStore) *ProductController {
	return &ProductController{store: s}
}

// LeaderboardOverview returns the top products of today, this week, this month and this year.
func (p *ProductController) LeaderboardOverview(ctx *gin.Context) {
	key := leaderboardCachePrefix + "overview"
	if utils.ServeCached(ctx, key) {
		return
	}
	board, err := p.store.LeaderboardOverview(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, 50040, "failed to load leaderboards")
		return
	}
	utils.SuccessCached(ctx, key, board, 10*time.Minute)
}

// DailyLeaderboard serves /leaderboards/daily/:year/:month/:day.
func (p *ProductController) DailyLeaderboard(ctx *gin.Context) {
	parts, ok := dateParams(ctx, "year", "month", "day")
	if !ok {
		return
	}
	w, err := p.store.Clock().Daily(parts[0], parts[1], parts[2])
	p.leaderboard(ctx, fmt.Sprintf("daily:%04d-%02d-%02d", parts[0], parts[1], parts[2]), w, err)
}

// WeeklyLeaderboard serves /leaderboards/weekly/:year/:week, weeks being ISO-8601 weeks.
func (p *ProductController) WeeklyLeaderboard(ctx *gin.Context) {
	parts, ok := dateParams(ctx, "year", "week")
	if !ok {
		return
	}
	w, err := p.store.Clock().Weekly(parts[0], parts[1])
	p.leaderboard(ctx, fmt.Sprintf("weekly:%04d-W%02d", parts[0], parts[1]), w, err)
}

// MonthlyLeaderboard serves /leaderboards/monthly/:year/:month.
func (p *ProductController) MonthlyLeaderboard(ctx *gin.Context) {
	parts, ok := dateParams(ctx, "year", "month")
	if !ok {
		return
	}
	w, err := p.store.Clock().Monthly(parts[0], parts[1])
	p.leaderboard(ctx, fmt.Sprintf("monthly:%04d-%02d", parts[0], parts[1]), w, err)
}

// YearlyLeaderboard serves /leaderboards/yearly/:year.
func (p *ProductController) YearlyLeaderboard(ctx *gin.Context) {
	parts, ok := dateParams(ctx, "year")
	if !ok {
		return
	}
	w, err := p.store.Clock().Yearly(parts[0])
	p.leaderboard(ctx, fmt.Sprintf("yearly:%04d", parts[0]), w, err)
}

func (p *ProductController) leaderboard(ctx *gin.Context, name string, w store.Window, windowErr error) {
	if windowErr != nil {
		storeError(ctx, windowErr, 50041, "failed to build leaderboard window")
		return
	}
	page, _ := parsePagination(ctx.Query("page"), "")
	key := fmt.Sprintf("%s%s:page=%d", leaderboardCachePrefix, name, page)
	if utils.ServeCached(ctx, key) {
		return
	}
	result, err := p.store.LeaderboardPage(ctx.Request.Context(), w, page)
	if err != nil {
		storeError(ctx, err, 50042, "failed to load leaderboard")
		return
	}
	utils.SuccessCached(ctx, key, gin.H{
		"window":     w,
		"items":      result.Items,
		"pagination": result.Pagination,
	}, 10*time.Minute)
}

// ListProducts returns the newest products, or a search when q is given.
func (p *ProductController) ListProducts(ctx *gin.Context) {
	page, size := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var (
		result store.Page[models.Product]
		err    error
	)
	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		result, err = p.store.SearchProducts(ctx.Request.Context(), q, page, size)
	} else {
		result, err = p.store.ListProducts(ctx.Request.Context(), page, size)
	}
	if err != nil {
		storeError(ctx, err, 50043, "failed to list products")
		return
	}
	utils.Success(ctx, result)
}

// GetProduct returns one product with its maker and category. Views are counted by middleware.
func (p *ProductController) GetProduct(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	key := productCacheKey(id) + "detail"
	if utils.ServeCached(ctx, key) {
		return
	}
	product, err := p.store.GetProduct(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50044, "failed to load product")
		return
	}
	utils.SuccessCached(ctx, key, gin.H{"product": product}, 10*time.Minute)
}

// CreateProduct launches a product for the caller.
func (p *ProductController) CreateProduct(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Tagline     string `json:"tagline" binding:"required"`
		Description string `json:"description" binding:"required"`
		HowItWorks  string `json:"how_it_works" binding:"required"`
		Icon        string `json:"icon"`
		URL         string `json:"url" binding:"required"`
		CategoryID  *uint  `json:"category_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid request payload")
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	product, err := p.store.CreateProduct(ctx.Request.Context(), store.NewProduct{
		Name:        utils.PlainText(req.Name),
		Tagline:     utils.PlainText(req.Tagline),
		Description: utils.Sanitize(req.Description),
		HowItWorks:  utils.Sanitize(req.HowItWorks),
		Icon:        strings.TrimSpace(req.Icon),
		URL:         strings.TrimSpace(req.URL),
		CategoryID:  req.CategoryID,
		ProfileID:   profileID,
	})
	if err != nil {
		storeError(ctx, err, 50045, "failed to create product")
		return
	}
	utils.InvalidateByPrefix(ctx.Request.Context(), leaderboardCachePrefix)
	utils.Success(ctx, gin.H{"product": product})
}

// ToggleUpvote adds or removes the caller's upvote and moves the counter with it.
func (p *ProductController) ToggleUpvote(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	upvoted, err := p.store.ToggleProductUpvote(ctx.Request.Context(), id, profileID)
	if err != nil {
		storeError(ctx, err, 50046, "failed to toggle upvote")
		return
	}
	p.invalidateProduct(ctx.Request.Context(), id)
	utils.Success(ctx, gin.H{"upvoted": upvoted})
}

// ListReviews returns a product's reviews.
func (p *ProductController) ListReviews(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	reviews, err := p.store.ListReviews(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50047, "failed to list reviews")
		return
	}
	utils.Success(ctx, gin.H{"items": reviews})
}

// CreateReview rates a product. One review per member and product.
func (p *ProductController) CreateReview(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
		Review string `json:"review" binding:"required,max=1000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "rating must be 1 to 5 and review 1 to 1000 characters")
		return
	}
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	review, err := p.store.CreateReview(ctx.Request.Context(), store.NewReview{
		ProductID: id,
		ProfileID: profileID,
		Rating:    req.Rating,
		Text:      utils.PlainText(req.Review),
	})
	if err != nil {
		storeError(ctx, err, 50048, "failed to create review")
		return
	}
	p.invalidateProduct(ctx.Request.Context(), id)
	utils.Success(ctx, gin.H{"review": review})
}

// ListCategories returns every category.
func (p *ProductController) ListCategories(ctx *gin.Context) {
	categories, err := p.store.ListCategories(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, 50049, "failed to list categories")
		return
	}
	utils.Success(ctx, gin.H{"items": categories})
}

// CategoryProducts returns a category with one page of its products.
func (p *ProductController) CategoryProducts(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	category, err := p.store.GetCategory(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, 50050, "failed to load category")
		return
	}
	page, size := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	result, err := p.store.ProductsByCategory(ctx.Request.Context(), id, page, size)
	if err != nil {
		storeError(ctx, err, 50051, "failed to list category products")
		return
	}
	utils.Success(ctx, gin.H{
		"category":   category,
		"items":      result.Items,
		"pagination": result.Pagination,
	})
}

func (p *ProductController) invalidateProduct(ctx context.Context, id uint) {
	utils.InvalidateByPrefix(ctx, productCacheKey(id), leaderboardCachePrefix)
}

func productCacheKey(id uint) string {
	return productCachePrefix + strconv.FormatUint(uint64(id), 10) + ":"
}

// dateParams parses integer path parameters, answering 400 on the first malformed one.
func dateParams(ctx *gin.Context, names ...string) ([]int, bool) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := strconv.Atoi(ctx.Param(name))
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40040, "invalid date")
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

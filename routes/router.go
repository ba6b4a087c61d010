package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cppla/wemake/config"
	"github.com/cppla/wemake/controllers"
	"github.com/cppla/wemake/middleware"
	"github.com/cppla/wemake/store"
	"github.com/cppla/wemake/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(st *store.Store, cfg config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and panics go to their own rolling file
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		utils.Sugar.Warnw("gin logger unavailable, using default recovery", "err", err)
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Metrics())

	r.Static("/static/uploads", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := st.DB().DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database unavailable")
			return
		}
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(st, utils.NewSMTPMailer(cfg))
	profileController := controllers.NewProfileController(st)
	postController := controllers.NewPostController(st)
	replyController := controllers.NewReplyController(st)
	productController := controllers.NewProductController(st)
	jobController := controllers.NewJobController(st)
	teamController := controllers.NewTeamController(st)
	ideaController := controllers.NewIdeaController(st)
	statsController := controllers.NewStatsController(st)
	uploadController := controllers.NewUploadController(cfg.UploadDir, cfg.UploadMaxSizeMB)

	limit := middleware.RateLimitMiddleware()
	authed := middleware.AuthRequired()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(limit)
	authGroup.POST("/join", authController.Join)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/captcha", authController.Captcha)
	authGroup.POST("/otp/start", authController.StartOTP)
	authGroup.POST("/otp/complete", authController.CompleteOTP)
	authGroup.GET("/social/:provider/start", authController.StartOAuth)
	authGroup.GET("/social/:provider/complete", authController.CompleteOAuth)
	authGroup.POST("/logout", authed, authController.Logout)
	authGroup.GET("/me", authed, authController.Me)
	authGroup.PATCH("/profile", authed, authController.UpdateProfile)
	authGroup.GET("/me/ideas", authed, ideaController.MyIdeas)

	api.GET("/profiles/:username", profileController.GetProfile)
	api.GET("/profiles/:username/products", profileController.ProfileProducts)
	api.GET("/profiles/:username/posts", profileController.ProfilePosts)

	api.GET("/topics", postController.ListTopics)
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/posts/:id/replies", replyController.ListReplies)
	api.GET("/posts/:id/stats", statsController.GetPostStats)
	api.GET("/stats", statsController.GetStats)

	api.GET("/leaderboards", productController.LeaderboardOverview)
	api.GET("/leaderboards/daily/:year/:month/:day", productController.DailyLeaderboard)
	api.GET("/leaderboards/weekly/:year/:week", productController.WeeklyLeaderboard)
	api.GET("/leaderboards/monthly/:year/:month", productController.MonthlyLeaderboard)
	api.GET("/leaderboards/yearly/:year", productController.YearlyLeaderboard)

	api.GET("/products", productController.ListProducts)
	api.GET("/products/:id", middleware.ViewCounter("id", st.IncrementProductViews), productController.GetProduct)
	api.GET("/products/:id/reviews", productController.ListReviews)
	api.GET("/categories", productController.ListCategories)
	api.GET("/categories/:id/products", productController.CategoryProducts)

	api.GET("/jobs", jobController.ListJobs)
	api.GET("/jobs/:id", jobController.GetJob)
	api.GET("/teams", teamController.ListTeams)
	api.GET("/teams/:id", teamController.GetTeam)
	api.GET("/ideas", ideaController.ListIdeas)
	api.GET("/ideas/:id", ideaController.GetIdea)

	protected := api.Group("")
	protected.Use(authed, limit)
	protected.POST("/upload", uploadController.UploadImage)
	protected.POST("/posts", postController.CreatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/upvote", postController.ToggleUpvote)
	protected.POST("/posts/:id/replies", replyController.CreateReply)
	protected.DELETE("/replies/:replyId", replyController.DeleteReply)
	protected.POST("/products", productController.CreateProduct)
	protected.POST("/products/:id/upvote", productController.ToggleUpvote)
	protected.POST("/products/:id/reviews", productController.CreateReview)
	protected.POST("/jobs", jobController.CreateJob)
	protected.POST("/teams", teamController.CreateTeam)
	protected.POST("/ideas/:id/claim", ideaController.ClaimIdea)
	protected.POST("/ideas/:id/like", ideaController.ToggleLike)

	admin := protected.Group("")
	admin.Use(middleware.AdminRequired())
	admin.POST("/topics", postController.CreateTopic)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/static/") {
			utils.Error(ctx, http.StatusNotFound, 40401, "static asset not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/config"
	"github.com/cppla/mzportal/controllers"
	"github.com/cppla/mzportal/middleware"
	"github.com/cppla/mzportal/storage"
	"github.com/cppla/mzportal/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *storage.LocalStore) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	gl := accessLogger(cfg)
	r.Use(ginzap.Ginzap(gl, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(gl, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static(store.URLPrefix(), store.Dir())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db, store)
	bannerController := controllers.NewBannerController(db)
	analyticsController := controllers.NewAnalyticsController()
	configController := controllers.NewConfigController()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("", authController.Login)
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public content
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", postController.GetPost)
	api.GET("/banners", bannerController.ListBanners)
	api.GET("/analytics", analyticsController.GetAnalytics)
	api.GET("/videos", configController.GetVideos)
	api.GET("/config/notice", configController.GetNotice)
	api.GET("/config/portals", configController.GetPortals)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)

	admin := api.Group("")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired(db))
	admin.POST("/banners", bannerController.CreateBanner)
	admin.PUT("/banners", bannerController.ReorderBanners)
	admin.DELETE("/banners", bannerController.DeleteBanner)
	admin.DELETE("/banners/:id", bannerController.DeleteBanner)
	admin.GET("/admin/users", authController.ListUsers)
	admin.PATCH("/admin/users/:id/role", authController.SetRole)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, store.URLPrefix()+"/") {
			utils.Error(ctx, http.StatusNotFound, 40401, "file not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

// accessLogger writes gin access logs to their own rolling file, falling back
// to the application logger in test mode or when the file cannot be opened.
func accessLogger(cfg config.AppConfig) *zap.Logger {
	if gin.Mode() == gin.TestMode || cfg.GinPath == "" {
		return utils.Logger
	}
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		utils.Sugar.Warnf("gin access log disabled: %v", err)
		return utils.Logger
	}
	return gl
}

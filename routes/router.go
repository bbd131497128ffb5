package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/gossip/config"
	"github.com/cppla/gossip/controllers"
	"github.com/cppla/gossip/middleware"
	"github.com/cppla/gossip/session"
	"github.com/cppla/gossip/templates"
	"github.com/cppla/gossip/utils"
)

// Forum is everything the screens and the session need from the remote API.
type Forum interface {
	controllers.ForumAPI
	session.Authenticator
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, storage utils.TokenStorage, forum Forum) (*gin.Engine, error) {
	switch strings.ToLower(cfg.App.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.Log.GinPath, cfg.Log.Level, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	cookies := utils.CookieOptions{
		SessionName: cfg.Cookie.SessionCookie,
		TokenName:   cfg.Cookie.TokenCookie,
		Domain:      cfg.Cookie.Domain,
		Secure:      cfg.Cookie.Secure,
		TTL:         cfg.App.TokenTTL,
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, session.LoginPath)
	})

	authController := controllers.NewAuthController()
	topicController := controllers.NewTopicController(forum)
	postController := controllers.NewPostController(forum)
	commentController := controllers.NewCommentController(forum)

	app := r.Group("")
	app.Use(middleware.SessionLoader(storage, cookies, forum))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.App.AllowedOrigins) == 0 || (len(cfg.App.AllowedOrigins) == 1 && cfg.App.AllowedOrigins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.App.AllowedOrigins
	}
	app.GET("/session", cors.New(corsCfg), authController.Session)
	app.POST("/logout", authController.Logout)

	public := app.Group("")
	public.Use(middleware.PublicOnly())
	public.GET("/login", authController.LoginPage)
	public.POST("/login", authController.Login)
	public.POST("/register", authController.Register)

	protected := app.Group("/topics")
	protected.Use(middleware.ProtectedOnly())
	protected.GET("", topicController.ListTopics)
	protected.GET("/new", topicController.NewTopic)
	protected.POST("/new", topicController.CreateTopic)
	protected.GET("/:topicID/edit", topicController.EditTopic)
	protected.POST("/:topicID/edit", topicController.UpdateTopic)
	protected.GET("/:topicID/delete", topicController.ConfirmDeleteTopic)
	protected.POST("/:topicID/delete", topicController.DeleteTopic)

	protected.GET("/:topicID/posts", postController.ListPosts)
	protected.GET("/:topicID/posts/new", postController.NewPost)
	protected.POST("/:topicID/posts/new", postController.CreatePost)
	protected.GET("/:topicID/posts/:postID/edit", postController.EditPost)
	protected.POST("/:topicID/posts/:postID/edit", postController.UpdatePost)
	protected.GET("/:topicID/posts/:postID/delete", postController.ConfirmDeletePost)
	protected.POST("/:topicID/posts/:postID/delete", postController.DeletePost)

	protected.GET("/:topicID/posts/:postID", commentController.ShowPost)
	protected.POST("/:topicID/posts/:postID/comments", commentController.CreateComment)
	protected.GET("/:topicID/posts/:postID/comments/:commentID/edit", commentController.EditComment)
	protected.POST("/:topicID/posts/:postID/comments/:commentID/edit", commentController.UpdateComment)
	protected.GET("/:topicID/posts/:postID/comments/:commentID/delete", commentController.ConfirmDeleteComment)
	protected.POST("/:topicID/posts/:postID/comments/:commentID/delete", commentController.DeleteComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r, nil
}

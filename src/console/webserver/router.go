package webserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/config"
	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/storage"
)

const (
	cacheKeyDashboard = "cache:dashboard"
	cacheKeyMembers   = "cache:members"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, store storage.Storage) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://admin.civiclink.org"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	cache := data.NewCache(rdb, time.Duration(cfg.CacheTTL)*time.Second)

	authH := NewAuth(db, rdb, []byte(cfg.JWTSecret))
	memberH := NewMembers(db, cache)
	blogH := NewBlogs(db, store, cache)
	galleryH := NewGallery(db, store, cache)
	eventH := NewEvents(db, cache)
	tagH := NewTags(db)
	feedH := NewFeed(db, store)
	uploadH := NewUpload(store)
	dashH := NewDashboard(db, cache)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/login", authH.Login)

		secured := v1.Group("")
		secured.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		{
			secured.GET("/members", memberH.List)
			secured.PATCH("/members/:id/status", memberH.SetStatus)

			secured.GET("/blogs", blogH.List)
			secured.GET("/blogs/:id", blogH.Get)
			secured.POST("/blogs", blogH.Create)
			secured.PUT("/blogs/:id", blogH.Update)
			secured.DELETE("/blogs/:id", blogH.Delete)

			secured.GET("/gallery", galleryH.List)
			secured.GET("/gallery/:id", galleryH.Get)
			secured.POST("/gallery", galleryH.Create)
			secured.PUT("/gallery/:id", galleryH.Update)
			secured.DELETE("/gallery/:id", galleryH.Delete)

			secured.GET("/events", eventH.List)
			secured.POST("/events", eventH.Create)
			secured.PUT("/events/:id", eventH.Update)
			secured.DELETE("/events/:id", eventH.Delete)

			secured.GET("/tags", tagH.List)
			secured.POST("/tags", tagH.Create)
			secured.PUT("/tags/:id", tagH.Update)
			secured.DELETE("/tags/:id", tagH.Delete)

			secured.GET("/feed", feedH.List)
			secured.POST("/feed", feedH.Create)
			secured.PUT("/feed/:id", feedH.Update)
			secured.DELETE("/feed/:id", feedH.Delete)

			secured.POST("/upload", uploadH.Create)

			secured.GET("/dashboard", dashH.Get)

			secured.POST("/settings/refresh", func(c *gin.Context) {
				if err := data.RefreshSettings(db); err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
					return
				}
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})
		}
	}
}

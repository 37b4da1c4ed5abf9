package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/config"
	"github.com/civiclink/console/src/console/storage"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, store storage.Storage) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, store)
	return g
}

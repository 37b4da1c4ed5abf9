package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/storage"
	"github.com/civiclink/console/src/console/types"
)

type Feed struct {
	db        *gorm.DB
	store     storage.Storage
	sanitizer *bluemonday.Policy
}

func NewFeed(db *gorm.DB, store storage.Storage) Feed {
	return Feed{db: db, store: store, sanitizer: newSanitizer()}
}

type feedRequest struct {
	AuthorName  string `json:"authorName" binding:"required,max=128"`
	AuthorEmail string `json:"authorEmail" binding:"required,email,max=256"`
	Title       string `json:"title" binding:"max=255"`
	Content     string `json:"content" binding:"max=10000"`
	ContentType string `json:"contentType" binding:"required,oneof=text image video file"`
	MediaURL    string `json:"mediaUrl" binding:"max=512"`
	MediaKey    string `json:"mediaKey" binding:"max=256"`
	FileName    string `json:"fileName" binding:"max=256"`
	FileSize    int64  `json:"fileSize" binding:"min=0"`
}

func (f Feed) List(c *gin.Context) {
	var posts []types.FeedPost
	if err := f.db.Order("created_at desc").Find(&posts).Error; err != nil {
		log.Printf("Failed to list feed posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (f Feed) Create(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ContentType != "text" && req.MediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": req.ContentType + " posts require media"})
		return
	}

	post := types.FeedPost{
		ID:          uuid.NewString(),
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Title:       req.Title,
		Content:     f.sanitizer.Sanitize(req.Content),
		ContentType: req.ContentType,
		MediaURL:    req.MediaURL,
		MediaKey:    req.MediaKey,
		FileName:    req.FileName,
		FileSize:    req.FileSize,
	}
	if err := f.db.Create(&post).Error; err != nil {
		log.Printf("Failed to create feed post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (f Feed) Update(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ContentType != "text" && req.MediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": req.ContentType + " posts require media"})
		return
	}

	var post types.FeedPost
	if err := f.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed post not found"})
			return
		}
		log.Printf("Failed to load feed post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	oldKey := post.MediaKey

	updates := map[string]interface{}{
		"author_name":  req.AuthorName,
		"author_email": req.AuthorEmail,
		"title":        req.Title,
		"content":      f.sanitizer.Sanitize(req.Content),
		"content_type": req.ContentType,
		"media_url":    req.MediaURL,
		"media_key":    req.MediaKey,
		"file_name":    req.FileName,
		"file_size":    req.FileSize,
	}
	if err := f.db.Model(&types.FeedPost{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update feed post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if oldKey != "" && oldKey != req.MediaKey {
		if err := f.store.Delete(c, oldKey); err != nil {
			log.Printf("Failed to delete replaced media %s for feed post %s: %v", oldKey, post.ID, err)
		}
	}

	f.db.First(&post, "id = ?", post.ID)
	c.JSON(http.StatusOK, post)
}

func (f Feed) Delete(c *gin.Context) {
	var post types.FeedPost
	if err := f.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "feed post not found"})
			return
		}
		log.Printf("Failed to load feed post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if post.MediaKey != "" {
		if err := f.store.Delete(c, post.MediaKey); err != nil {
			log.Printf("Failed to delete media %s for feed post %s: %v", post.MediaKey, post.ID, err)
		}
	}

	if err := f.db.Delete(&types.FeedPost{}, "id = ?", post.ID).Error; err != nil {
		log.Printf("Failed to delete feed post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": post.ID})
}

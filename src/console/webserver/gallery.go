package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/storage"
	"github.com/civiclink/console/src/console/types"
)

type Gallery struct {
	db        *gorm.DB
	store     storage.Storage
	cache     *data.Cache
	sanitizer *bluemonday.Policy
}

func NewGallery(db *gorm.DB, store storage.Storage, cache *data.Cache) Gallery {
	return Gallery{db: db, store: store, cache: cache, sanitizer: newSanitizer()}
}

type galleryImageInput struct {
	URL string `json:"url" binding:"required,max=512"`
	Key string `json:"key" binding:"max=256"`
	Alt string `json:"alt" binding:"max=256"`
}

type galleryRequest struct {
	Title       string              `json:"title" binding:"required,max=255"`
	Description string              `json:"description"`
	Images      []galleryImageInput `json:"images" binding:"max=50"`
	Tags        []string            `json:"tags" binding:"max=20"`
}

func (g Gallery) List(c *gin.Context) {
	var posts []types.GalleryPost
	err := g.db.Preload("Tags").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("created_at desc").Find(&posts).Error
	if err != nil {
		log.Printf("Failed to list gallery posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (g Gallery) Get(c *gin.Context) {
	post, ok := g.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, post)
}

func (g Gallery) Create(c *gin.Context) {
	var req galleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := slugify(req.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain at least one letter or digit"})
		return
	}

	var dup int64
	g.db.Model(&types.GalleryPost{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a gallery with this title already exists"})
		return
	}

	post := types.GalleryPost{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        slug,
		Description: g.sanitizer.Sanitize(req.Description),
	}

	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := replaceGalleryImages(tx, post.ID, req.Images); err != nil {
			return err
		}
		return syncGalleryTags(tx, post.ID, req.Tags)
	})
	if err != nil {
		log.Printf("Failed to create gallery post %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	g.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusCreated, g.reload(post.ID))
}

func (g Gallery) Update(c *gin.Context) {
	var req galleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, ok := g.load(c)
	if !ok {
		return
	}

	// Unlike blog posts, a gallery's slug tracks its title.
	slug := slugify(req.Title)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title must contain at least one letter or digit"})
		return
	}
	var dup int64
	g.db.Model(&types.GalleryPost{}).Where("slug = ? AND id <> ?", slug, post.ID).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a gallery with this title already exists"})
		return
	}

	// Keys owned before the update but absent from the request are stale.
	keep := make(map[string]bool, len(req.Images))
	for _, img := range req.Images {
		if img.Key != "" {
			keep[img.Key] = true
		}
	}
	var stale []string
	for _, img := range post.Images {
		if img.Key != "" && !keep[img.Key] {
			stale = append(stale, img.Key)
		}
	}

	err := g.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       req.Title,
			"slug":        slug,
			"description": g.sanitizer.Sanitize(req.Description),
		}
		if err := tx.Model(&types.GalleryPost{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := replaceGalleryImages(tx, post.ID, req.Images); err != nil {
			return err
		}
		return syncGalleryTags(tx, post.ID, req.Tags)
	})
	if err != nil {
		log.Printf("Failed to update gallery post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	for _, key := range stale {
		if err := g.store.Delete(c, key); err != nil {
			log.Printf("Failed to delete replaced image %s for gallery post %s: %v", key, post.ID, err)
		}
	}

	g.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusOK, g.reload(post.ID))
}

func (g Gallery) Delete(c *gin.Context) {
	post, ok := g.load(c)
	if !ok {
		return
	}

	// Every owned asset gets a deletion attempt; failures are logged and do
	// not stop the rest, nor the row deletion.
	for _, img := range post.Images {
		if img.Key == "" {
			continue
		}
		if err := g.store.Delete(c, img.Key); err != nil {
			log.Printf("Failed to delete image %s for gallery post %s: %v", img.Key, post.ID, err)
		}
	}

	err := g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gallery_post_id = ?", post.ID).Delete(&types.GalleryPostTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_post_id = ?", post.ID).Delete(&types.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&types.GalleryPost{}, "id = ?", post.ID).Error
	})
	if err != nil {
		log.Printf("Failed to delete gallery post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	g.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusOK, gin.H{"deleted": post.ID})
}

func (g Gallery) load(c *gin.Context) (types.GalleryPost, bool) {
	var post types.GalleryPost
	err := g.db.Preload("Tags").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&post, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "gallery post not found"})
			return post, false
		}
		log.Printf("Failed to load gallery post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return post, false
	}
	return post, true
}

func (g Gallery) reload(id string) types.GalleryPost {
	var post types.GalleryPost
	g.db.Preload("Tags").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&post, "id = ?", id)
	return post
}

// replaceGalleryImages swaps the owned image set, positions following request
// order.
func replaceGalleryImages(tx *gorm.DB, postID string, images []galleryImageInput) error {
	if err := tx.Where("gallery_post_id = ?", postID).Delete(&types.GalleryImage{}).Error; err != nil {
		return err
	}
	for i, img := range images {
		row := types.GalleryImage{
			ID:            uuid.NewString(),
			GalleryPostID: postID,
			URL:           img.URL,
			Key:           img.Key,
			Alt:           img.Alt,
			Position:      i,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func syncGalleryTags(tx *gorm.DB, postID string, tagIDs []string) error {
	if err := tx.Where("gallery_post_id = ?", postID).Delete(&types.GalleryPostTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	var tags []types.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tx.Create(&types.GalleryPostTag{GalleryPostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

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

type Blogs struct {
	db        *gorm.DB
	store     storage.Storage
	cache     *data.Cache
	sanitizer *bluemonday.Policy
}

func NewBlogs(db *gorm.DB, store storage.Storage, cache *data.Cache) Blogs {
	return Blogs{db: db, store: store, cache: cache, sanitizer: newSanitizer()}
}

func (b Blogs) List(c *gin.Context) {
	var posts []types.BlogPost
	if err := b.db.Preload("Tags").Order("created_at desc").Find(&posts).Error; err != nil {
		log.Printf("Failed to list blog posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (b Blogs) Get(c *gin.Context) {
	var post types.BlogPost
	if err := b.db.Preload("Tags").First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog post not found"})
			return
		}
		log.Printf("Failed to load blog post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (b Blogs) Create(c *gin.Context) {
	var req struct {
		Title    string   `json:"title" binding:"required,max=255"`
		Body     string   `json:"body"`
		CoverURL string   `json:"coverUrl" binding:"max=512"`
		CoverKey string   `json:"coverKey" binding:"max=256"`
		Status   string   `json:"status" binding:"required,oneof=draft published"`
		Tags     []string `json:"tags" binding:"max=20"`
	}
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
	b.db.Model(&types.BlogPost{}).Where("slug = ?", slug).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "a post with this title already exists"})
		return
	}

	post := types.BlogPost{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Slug:     slug,
		Body:     b.sanitizer.Sanitize(req.Body),
		CoverURL: req.CoverURL,
		CoverKey: req.CoverKey,
		Status:   req.Status,
		Author:   c.GetString("admin"),
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return syncBlogTags(tx, post.ID, req.Tags)
	})
	if err != nil {
		log.Printf("Failed to create blog post %q: %v", req.Title, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	b.cache.Invalidate(c, cacheKeyDashboard)
	b.db.Preload("Tags").First(&post, "id = ?", post.ID)
	c.JSON(http.StatusCreated, post)
}

func (b Blogs) Update(c *gin.Context) {
	var req struct {
		Title    string   `json:"title" binding:"required,max=255"`
		Body     string   `json:"body"`
		CoverURL string   `json:"coverUrl" binding:"max=512"`
		CoverKey string   `json:"coverKey" binding:"max=256"`
		Status   string   `json:"status" binding:"required,oneof=draft published"`
		Tags     []string `json:"tags" binding:"max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var post types.BlogPost
	if err := b.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog post not found"})
			return
		}
		log.Printf("Failed to load blog post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	oldCover := post.CoverKey

	// Slug is immutable after creation; the title can drift from it.
	err := b.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":     req.Title,
			"body":      b.sanitizer.Sanitize(req.Body),
			"cover_url": req.CoverURL,
			"cover_key": req.CoverKey,
			"status":    req.Status,
		}
		if err := tx.Model(&types.BlogPost{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}
		return syncBlogTags(tx, post.ID, req.Tags)
	})
	if err != nil {
		log.Printf("Failed to update blog post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if oldCover != "" && oldCover != req.CoverKey {
		if err := b.store.Delete(c, oldCover); err != nil {
			log.Printf("Failed to delete replaced cover %s for blog post %s: %v", oldCover, post.ID, err)
		}
	}

	b.cache.Invalidate(c, cacheKeyDashboard)
	b.db.Preload("Tags").First(&post, "id = ?", post.ID)
	c.JSON(http.StatusOK, post)
}

func (b Blogs) Delete(c *gin.Context) {
	var post types.BlogPost
	if err := b.db.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog post not found"})
			return
		}
		log.Printf("Failed to load blog post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Storage cleanup is best effort; the row goes away regardless.
	if post.CoverKey != "" {
		if err := b.store.Delete(c, post.CoverKey); err != nil {
			log.Printf("Failed to delete cover %s for blog post %s: %v", post.CoverKey, post.ID, err)
		}
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_post_id = ?", post.ID).Delete(&types.BlogPostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&types.BlogPost{}, "id = ?", post.ID).Error
	})
	if err != nil {
		log.Printf("Failed to delete blog post %s: %v", post.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	b.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusOK, gin.H{"deleted": post.ID})
}

// syncBlogTags replaces the full join-row set for a post with the given tag
// ids. Unknown ids are dropped rather than rejected.
func syncBlogTags(tx *gorm.DB, postID string, tagIDs []string) error {
	if err := tx.Where("blog_post_id = ?", postID).Delete(&types.BlogPostTag{}).Error; err != nil {
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
		if err := tx.Create(&types.BlogPostTag{BlogPostID: postID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

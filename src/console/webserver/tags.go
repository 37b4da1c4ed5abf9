package webserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/types"
)

type Tags struct {
	db *gorm.DB
}

func NewTags(db *gorm.DB) Tags {
	return Tags{db: db}
}

func (t Tags) List(c *gin.Context) {
	var tags []types.Tag
	if err := t.db.Order("name asc").Find(&tags).Error; err != nil {
		log.Printf("Failed to list tags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (t Tags) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=2,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slug := slugify(req.Name)
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must contain at least one letter or digit"})
		return
	}

	var dup int64
	t.db.Model(&types.Tag{}).Where("name = ? OR slug = ?", req.Name, slug).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "tag already exists"})
		return
	}

	tag := types.Tag{ID: uuid.NewString(), Name: req.Name, Slug: slug}
	if err := t.db.Create(&tag).Error; err != nil {
		log.Printf("Failed to create tag %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (t Tags) Update(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=2,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var tag types.Tag
	if err := t.db.First(&tag, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
			return
		}
		log.Printf("Failed to load tag %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slug := slugify(req.Name)
	var dup int64
	t.db.Model(&types.Tag{}).Where("(name = ? OR slug = ?) AND id <> ?", req.Name, slug, tag.ID).Count(&dup)
	if dup > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "tag already exists"})
		return
	}

	if err := t.db.Model(&types.Tag{}).Where("id = ?", tag.ID).
		Updates(map[string]interface{}{"name": req.Name, "slug": slug}).Error; err != nil {
		log.Printf("Failed to update tag %s: %v", tag.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	t.db.First(&tag, "id = ?", tag.ID)
	c.JSON(http.StatusOK, tag)
}

// Delete refuses to remove a tag that is still attached to any post.
func (t Tags) Delete(c *gin.Context) {
	var tag types.Tag
	if err := t.db.First(&tag, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
			return
		}
		log.Printf("Failed to load tag %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var inUse int64
	t.db.Model(&types.BlogPostTag{}).Where("tag_id = ?", tag.ID).Count(&inUse)
	if inUse == 0 {
		t.db.Model(&types.GalleryPostTag{}).Where("tag_id = ?", tag.ID).Count(&inUse)
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "tag is still in use"})
		return
	}

	if err := t.db.Delete(&types.Tag{}, "id = ?", tag.ID).Error; err != nil {
		log.Printf("Failed to delete tag %s: %v", tag.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": tag.ID})
}

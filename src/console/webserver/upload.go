package webserver

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/civiclink/console/src/console/storage"
)

const maxUploadSize = 10 << 20 // 10MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"video/mp4":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type Upload struct {
	store storage.Storage
}

func NewUpload(store storage.Storage) Upload {
	return Upload{store: store}
}

// Create accepts one multipart file and stores it under a content-addressed
// key, returning the public URL.
func (u Upload) Create(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a file is required"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type " + contentType})
		return
	}

	src, err := header.Open()
	if err != nil {
		log.Printf("Failed to open upload %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	defer src.Close()

	payload, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		log.Printf("Failed to read upload %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if len(payload) > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}

	scope := c.PostForm("scope")
	if slugify(scope) != scope || scope == "" {
		scope = "uploads"
	}

	key := uploadKey(scope, header.Filename, payload)

	url, err := u.store.Put(c, key, contentType, payload)
	if err != nil {
		log.Printf("Failed to store upload %s as %s: %v", header.Filename, key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Logged so keys orphaned by a failed follow-up insert stay traceable.
	log.Printf("Stored upload %s as %s (%d bytes)", header.Filename, key, len(payload))

	c.JSON(http.StatusCreated, gin.H{
		"url":  url,
		"key":  key,
		"name": header.Filename,
		"size": len(payload),
	})
}

// uploadKey derives <scope>/<contenthash>-<uuid><ext>. The hash groups
// re-uploads of identical bytes next to each other; the uuid keeps keys
// unique so deletes never race over shared objects.
func uploadKey(scope, filename string, payload []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	sum := xxhash.Checksum64(payload)
	return fmt.Sprintf("%s/%016x-%s%s", scope, sum, uuid.NewString(), ext)
}

package webserver

import (
	"net/http"
	"regexp"
	"testing"

	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/types"
)

func seedTag(t *testing.T, db *gorm.DB, id, name string) types.Tag {
	t.Helper()
	tag := types.Tag{ID: id, Name: name, Slug: slugify(name)}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return tag
}

func TestBlogDraftThenPublish(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title":  "A",
		"body":   "<p>first draft</p>",
		"status": "draft",
	})
	expectStatus(t, w, http.StatusCreated)

	var created types.BlogPost
	decodeBody(t, w, &created)
	if created.ID == "" {
		t.Fatal("create should return a generated id")
	}
	if created.Status != "draft" {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if !regexp.MustCompile(`^[a-z0-9-]+$`).MatchString(created.Slug) {
		t.Errorf("slug = %q, want ^[a-z0-9-]+$", created.Slug)
	}

	w = doJSON(t, r, http.MethodPut, "/v1/blogs/"+created.ID, token, map[string]interface{}{
		"title":  "A",
		"body":   "<p>final</p>",
		"status": "published",
	})
	expectStatus(t, w, http.StatusOK)

	var updated types.BlogPost
	decodeBody(t, w, &updated)
	if updated.ID != created.ID {
		t.Errorf("update changed id: %q -> %q", created.ID, updated.ID)
	}
	if updated.Status != "published" {
		t.Errorf("status = %q, want published", updated.Status)
	}
	if updated.Slug != created.Slug {
		t.Errorf("slug changed on update: %q -> %q", created.Slug, updated.Slug)
	}
}

func TestBlogSlugImmutableOnRetitle(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title": "Hello, World!", "status": "draft",
	})
	expectStatus(t, w, http.StatusCreated)
	var post types.BlogPost
	decodeBody(t, w, &post)
	if post.Slug != "hello-world" {
		t.Fatalf("slug = %q, want hello-world", post.Slug)
	}

	w = doJSON(t, r, http.MethodPut, "/v1/blogs/"+post.ID, token, map[string]interface{}{
		"title": "Completely Different Title", "status": "draft",
	})
	expectStatus(t, w, http.StatusOK)
	var updated types.BlogPost
	decodeBody(t, w, &updated)
	if updated.Slug != "hello-world" {
		t.Errorf("blog slug should not follow title edits, got %q", updated.Slug)
	}
	if updated.Title != "Completely Different Title" {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestBlogDuplicateSlugConflict(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	body := map[string]interface{}{"title": "Annual Report", "status": "published"}
	expectStatus(t, doJSON(t, r, http.MethodPost, "/v1/blogs", token, body), http.StatusCreated)
	expectStatus(t, doJSON(t, r, http.MethodPost, "/v1/blogs", token, body), http.StatusConflict)
}

func TestBlogMissingTitle(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"status": "draft",
	})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestBlogTagSyncIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	news := seedTag(t, db, "11111111-1111-1111-1111-111111111111", "News")
	sport := seedTag(t, db, "22222222-2222-2222-2222-222222222222", "Sport")

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title":  "Tagged Post",
		"status": "draft",
		"tags":   []string{news.ID, sport.ID},
	})
	expectStatus(t, w, http.StatusCreated)
	var post types.BlogPost
	decodeBody(t, w, &post)

	// Saving again with the same set leaves exactly that set.
	for i := 0; i < 2; i++ {
		w = doJSON(t, r, http.MethodPut, "/v1/blogs/"+post.ID, token, map[string]interface{}{
			"title":  "Tagged Post",
			"status": "draft",
			"tags":   []string{news.ID, sport.ID},
		})
		expectStatus(t, w, http.StatusOK)
	}

	var joins []types.BlogPostTag
	if err := db.Where("blog_post_id = ?", post.ID).Find(&joins).Error; err != nil {
		t.Fatalf("load joins: %v", err)
	}
	if len(joins) != 2 {
		t.Fatalf("join rows = %d, want 2", len(joins))
	}

	// Shrinking the set removes the leftover.
	w = doJSON(t, r, http.MethodPut, "/v1/blogs/"+post.ID, token, map[string]interface{}{
		"title":  "Tagged Post",
		"status": "draft",
		"tags":   []string{sport.ID},
	})
	expectStatus(t, w, http.StatusOK)

	db.Where("blog_post_id = ?", post.ID).Find(&joins)
	if len(joins) != 1 || joins[0].TagID != sport.ID {
		t.Fatalf("join rows after shrink = %+v, want only %s", joins, sport.ID)
	}
}

func TestBlogDeleteCleansUp(t *testing.T) {
	db := newTestDB(t)
	store := newFakeStorage()
	r := newTestRouter(t, db, store, nil)
	token := testToken(t)

	news := seedTag(t, db, "11111111-1111-1111-1111-111111111111", "News")

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title":    "Doomed Post",
		"status":   "draft",
		"coverKey": "blog/cover-abc.jpg",
		"coverUrl": "https://files.test/blog/cover-abc.jpg",
		"tags":     []string{news.ID},
	})
	expectStatus(t, w, http.StatusCreated)
	var post types.BlogPost
	decodeBody(t, w, &post)

	expectStatus(t, doJSON(t, r, http.MethodDelete, "/v1/blogs/"+post.ID, token, nil), http.StatusOK)

	var count int64
	db.Model(&types.BlogPost{}).Where("id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Error("post row should be gone")
	}
	db.Model(&types.BlogPostTag{}).Where("blog_post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Error("join rows should be gone")
	}
	if len(store.deletes) != 1 || store.deletes[0] != "blog/cover-abc.jpg" {
		t.Errorf("storage deletes = %v, want the cover key", store.deletes)
	}
}

func TestBlogBodySanitized(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title":  "Scripted",
		"status": "draft",
		"body":   `<p>fine</p><script>alert(1)</script>`,
	})
	expectStatus(t, w, http.StatusCreated)
	var post types.BlogPost
	decodeBody(t, w, &post)
	if post.Body != "<p>fine</p>" {
		t.Errorf("body = %q, script should be stripped", post.Body)
	}
}

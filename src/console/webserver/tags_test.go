package webserver

import (
	"net/http"
	"testing"

	"github.com/civiclink/console/src/console/types"
)

func TestTagCreateAndConflict(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodPost, "/v1/tags", token, map[string]string{"name": "Community News"})
	expectStatus(t, w, http.StatusCreated)
	var tag types.Tag
	decodeBody(t, w, &tag)
	if tag.Slug != "community-news" {
		t.Errorf("slug = %q, want community-news", tag.Slug)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/tags", token, map[string]string{"name": "Community News"})
	expectStatus(t, w, http.StatusConflict)
}

func TestTagDeleteInUseConflict(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	tag := seedTag(t, db, "11111111-1111-1111-1111-111111111111", "Pinned")

	w := doJSON(t, r, http.MethodPost, "/v1/blogs", token, map[string]interface{}{
		"title":  "Uses The Tag",
		"status": "draft",
		"tags":   []string{tag.ID},
	})
	expectStatus(t, w, http.StatusCreated)

	expectStatus(t, doJSON(t, r, http.MethodDelete, "/v1/tags/"+tag.ID, token, nil), http.StatusConflict)

	// Detach and retry.
	db.Where("tag_id = ?", tag.ID).Delete(&types.BlogPostTag{})
	expectStatus(t, doJSON(t, r, http.MethodDelete, "/v1/tags/"+tag.ID, token, nil), http.StatusOK)

	var count int64
	db.Model(&types.Tag{}).Where("id = ?", tag.ID).Count(&count)
	if count != 0 {
		t.Error("tag should be deleted once unused")
	}
}

func TestTagUpdateRename(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	tag := seedTag(t, db, "11111111-1111-1111-1111-111111111111", "Old Name")
	other := seedTag(t, db, "22222222-2222-2222-2222-222222222222", "Taken")

	w := doJSON(t, r, http.MethodPut, "/v1/tags/"+tag.ID, token, map[string]string{"name": "Fresh Name"})
	expectStatus(t, w, http.StatusOK)
	var renamed types.Tag
	decodeBody(t, w, &renamed)
	if renamed.Name != "Fresh Name" || renamed.Slug != "fresh-name" {
		t.Errorf("renamed = %+v", renamed)
	}

	// Renaming onto an existing tag is a conflict.
	w = doJSON(t, r, http.MethodPut, "/v1/tags/"+tag.ID, token, map[string]string{"name": other.Name})
	expectStatus(t, w, http.StatusConflict)
}

func TestTagNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db, newFakeStorage(), nil)
	token := testToken(t)

	w := doJSON(t, r, http.MethodDelete, "/v1/tags/no-such-tag", token, nil)
	expectStatus(t, w, http.StatusNotFound)
}

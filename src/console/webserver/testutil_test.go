package webserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/config"
	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/types"
)

const testSecret = "unit-test-secret-not-for-production"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := data.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeStorage records puts and deletes; keys listed in failKeys error out on
// delete.
type fakeStorage struct {
	mu       sync.Mutex
	puts     []string
	deletes  []string
	failKeys map[string]bool
}

func newFakeStorage(failKeys ...string) *fakeStorage {
	fail := make(map[string]bool, len(failKeys))
	for _, k := range failKeys {
		fail[k] = true
	}
	return &fakeStorage{failKeys: fail}
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, payload []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	return f.URL(key), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	if f.failKeys[key] {
		return errors.New("storage unavailable")
	}
	return nil
}

func (f *fakeStorage) URL(key string) string { return "https://files.test/" + key }

func newTestRouter(t *testing.T, db *gorm.DB, store *fakeStorage, rdb *redis.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{JWTSecret: testSecret, CacheTTL: 1}
	return New(cfg, db, rdb, store)
}

func testToken(t *testing.T) string {
	t.Helper()
	tok, err := issueJWT(types.AdminUser{ID: 1, Email: "admin@example.org"}, []byte(testSecret))
	if err != nil {
		t.Fatalf("issue jwt: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func seedAdminUser(t *testing.T, db *gorm.DB, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := types.AdminUser{Email: email, PasswordHash: string(hash), Name: "Test Admin"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

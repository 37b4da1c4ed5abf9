package webserver

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/types"
)

const (
	maxLoginFailures = 5
	loginLockWindow  = 15 * time.Minute
)

type Auth struct {
	db        *gorm.DB
	rdb       *redis.Client
	jwtSecret []byte
}

func NewAuth(db *gorm.DB, rdb *redis.Client, secret []byte) Auth {
	return Auth{db: db, rdb: rdb, jwtSecret: secret}
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email,max=256"`
		Password string `json:"password" binding:"required,min=8,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	log.Printf("Login attempt for %s from IP %s", email, c.ClientIP())

	if a.rdb != nil && data.LoginFailures(c, a.rdb, email) >= maxLoginFailures {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts, try again later"})
		return
	}

	var admin types.AdminUser
	err := a.db.First(&admin, "email = ?", email).Error
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password))
	}
	if err != nil {
		if a.rdb != nil {
			if _, lerr := data.RegisterLoginFailure(c, a.rdb, email, loginLockWindow); lerr != nil {
				log.Printf("Failed to record login failure for %s: %v", email, lerr)
			}
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if a.rdb != nil {
		data.ClearLoginFailures(c, a.rdb, email)
	}

	now := time.Now()
	if err := a.db.Model(&types.AdminUser{}).Where("id = ?", admin.ID).
		Update("last_login_at", now).Error; err != nil {
		log.Printf("Failed to stamp last login for %s: %v", email, err)
	}

	token, err := issueJWT(admin, a.jwtSecret)
	if err != nil {
		log.Printf("Failed to issue JWT for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Printf("Successfully authenticated %s", email)
	c.JSON(http.StatusOK, gin.H{"token": token, "name": admin.Name, "email": admin.Email})
}

func issueJWT(admin types.AdminUser, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   admin.ID,
		"email": admin.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString(secret)
}

package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	MySQLDSN       string
	RedisURL       string
	JWTSecret      string
	Port           string
	CacheTTL       int // seconds
	StorageDriver  string // local | s3
	StoragePath    string
	StorageBaseURL string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	AdminEmail     string
	AdminPassword  string
	EnableSSL      bool
	SSLCert        string
	SSLKey         string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	ttl, _ := strconv.Atoi(getenv("CACHE_TTL", "60"))
	ssl, _ := strconv.ParseBool(getenv("ENABLE_SSL", "false"))
	return Config{
		MySQLDSN:       getenv("MYSQL_DSN", "console:console@tcp(localhost:3306)/console?parseTime=true"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      getenv("JWT_SECRET", "dev-only-secret-change-me"),
		Port:           getenv("PORT", "8080"),
		CacheTTL:       ttl,
		StorageDriver:  getenv("STORAGE_DRIVER", "local"),
		StoragePath:    getenv("STORAGE_PATH", "./uploads"),
		StorageBaseURL: getenv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("S3_REGION"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		EnableSSL:      ssl,
		SSLCert:        os.Getenv("SSL_CERT"),
		SSLKey:         os.Getenv("SSL_KEY"),
	}
}

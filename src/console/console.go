package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/config"
	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/storage"
	"github.com/civiclink/console/src/console/types"
	"github.com/civiclink/console/src/console/webserver"
)

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	seedAdmin(db, cfg)

	rdb := data.MustRedis(cfg.RedisURL)

	store := mustStorage(cfg)

	router := webserver.New(cfg, db, rdb, store)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		var err error
		if cfg.EnableSSL && cfg.SSLCert != "" && cfg.SSLKey != "" {
			tlsReloader, rerr := webserver.NewTLSReloader(cfg.SSLCert, cfg.SSLKey)
			if rerr != nil {
				log.Printf("Failed to create TLS reloader: %v. Falling back to HTTP", rerr)
				err = httpSrv.ListenAndServe()
			} else {
				log.Printf("Starting HTTPS server on port %s", cfg.Port)
				httpSrv.TLSConfig = tlsReloader.GetConfig()
				err = httpSrv.ListenAndServeTLS("", "")
			}
		} else {
			log.Printf("Starting HTTP server on port %s (SSL not configured)", cfg.Port)
			err = httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	log.Printf("Admin console API listening on %s (storage: %s)", cfg.Port, cfg.StorageDriver)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}

func mustStorage(cfg config.Config) storage.Storage {
	switch cfg.StorageDriver {
	case "s3":
		store, err := storage.NewS3(cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		return store
	default:
		store, err := storage.NewLocal(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		return store
	}
}

// seedAdmin creates the first operator account when none exist and
// credentials are configured, so a fresh deployment can log in.
func seedAdmin(db *gorm.DB, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var count int64
	db.Model(&types.AdminUser{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash seed admin password: %v", err)
		return
	}
	admin := types.AdminUser{Email: cfg.AdminEmail, PasswordHash: string(hash), Name: "Administrator"}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", cfg.AdminEmail)
}

package data

import (
	"log"

	"github.com/civiclink/console/src/console/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate keeps the schema in step with the models. Join tables are listed
// explicitly so the tag-sync delete/insert path has real tables to hit.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Member{},
		&types.Tag{},
		&types.BlogPost{},
		&types.BlogPostTag{},
		&types.GalleryPost{},
		&types.GalleryImage{},
		&types.GalleryPostTag{},
		&types.Event{},
		&types.FeedPost{},
		&types.AdminUser{},
		&types.Setting{},
	)
}

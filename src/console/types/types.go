package types

import "time"

// Membership applications. A row is created by the public application form
// with Status left NULL; NULL means pending. Only the moderation endpoint
// writes the status and audit columns.
type Member struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FirstName    string  `gorm:"size:64;not null" json:"firstName"`
	LastName     string  `gorm:"size:64;not null" json:"lastName"`
	DOBDay       string  `gorm:"size:2" json:"dobDay"`
	DOBMonth     string  `gorm:"size:2" json:"dobMonth"`
	LGA          string  `gorm:"size:64" json:"lga"`
	Mobile       string  `gorm:"size:32" json:"mobile"`
	Email        string  `gorm:"size:256;index" json:"email"`
	Address      string  `gorm:"size:256" json:"address"`
	Bio          string  `gorm:"type:text" json:"bio"`
	Status       *string `gorm:"size:16;index" json:"status"` // approved | declined | blocked, NULL = pending

	ApprovedBy *string    `gorm:"size:256" json:"approvedBy"`
	ApprovedOn *time.Time `json:"approvedOn"`

	DeniedBy     *string    `gorm:"size:256" json:"deniedBy"`
	DeniedOn     *time.Time `json:"deniedOn"`
	DenialReason *string    `gorm:"size:512" json:"denialReason"`

	BlockedBy *string    `gorm:"size:256" json:"blockedBy"`
	BlockedOn *time.Time `json:"blockedOn"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Member) TableName() string { return "membership" }

// Blog posts
type BlogPost struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Body      string    `gorm:"type:text" json:"body"`
	CoverURL  string    `gorm:"size:512" json:"coverUrl"`
	CoverKey  string    `gorm:"size:256" json:"coverKey"`
	Status    string    `gorm:"size:16;not null;default:draft" json:"status"` // draft | published
	Author    string    `gorm:"size:256" json:"author"`
	Tags      []Tag     `gorm:"many2many:blogpost_tags" json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BlogPost) TableName() string { return "blogposts" }

type BlogPostTag struct {
	BlogPostID string `gorm:"primaryKey;size:36"`
	TagID      string `gorm:"primaryKey;size:36"`
}

func (BlogPostTag) TableName() string { return "blogpost_tags" }

// Gallery posts own an ordered set of images which are cascade-deleted with
// the post.
type GalleryPost struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Slug        string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        []Tag          `gorm:"many2many:gallerypost_tags" json:"tags"`
	Images      []GalleryImage `gorm:"foreignKey:GalleryPostID;constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (GalleryPost) TableName() string { return "galleryposts" }

type GalleryImage struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	GalleryPostID string `gorm:"size:36;index;not null" json:"galleryPostId"`
	URL           string `gorm:"size:512;not null" json:"url"`
	Key           string `gorm:"size:256" json:"key"`
	Alt           string `gorm:"size:256" json:"alt"`
	Position      int    `gorm:"not null;default:0" json:"position"`
}

func (GalleryImage) TableName() string { return "galleryimages" }

type GalleryPostTag struct {
	GalleryPostID string `gorm:"primaryKey;size:36"`
	TagID         string `gorm:"primaryKey;size:36"`
}

func (GalleryPostTag) TableName() string { return "gallerypost_tags" }

// Tags are shared between blog and gallery posts.
type Tag struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string { return "tags" }

// Events. Status is derived from EventDate at write time, never client-set.
type Event struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	EventDate time.Time `gorm:"index;not null" json:"eventDate"`
	StartTime string    `gorm:"size:16" json:"startTime"`
	EndTime   string    `gorm:"size:16" json:"endTime"`
	Venue     string    `gorm:"size:256" json:"venue"`
	Summary   string    `gorm:"size:512" json:"summary"`
	Content   string    `gorm:"type:text" json:"content"`
	Status    string    `gorm:"size:16;not null" json:"status"` // upcoming | past
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

// Social feed posts
type FeedPost struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorName  string    `gorm:"size:128;not null" json:"authorName"`
	AuthorEmail string    `gorm:"size:256;not null" json:"authorEmail"`
	Title       string    `gorm:"size:255" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	ContentType string    `gorm:"size:16;not null;default:text" json:"contentType"` // text | image | video | file
	MediaURL    string    `gorm:"size:512" json:"mediaUrl"`
	MediaKey    string    `gorm:"size:256" json:"mediaKey"`
	FileName    string    `gorm:"size:256" json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (FeedPost) TableName() string { return "membership_feed" }

// Console operators
type AdminUser struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:256;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Name         string     `gorm:"size:128" json:"name"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (AdminUser) TableName() string { return "admin_users" }

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}

func (Setting) TableName() string { return "settings" }

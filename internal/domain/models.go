package domain

import (
	"time"

	"github.com/lib/pq"
)

// Category is the fixed set of post categories.
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryLifestyle  Category = "Lifestyle"
	CategoryBusiness   Category = "Business"
	CategoryHealth     Category = "Health"
	CategoryEducation  Category = "Education"
	CategoryTravel     Category = "Travel"
	CategoryFood       Category = "Food"
	CategoryOther      Category = "Other"
)

// ParseCategory reports whether s names a known category. The sentinel "All"
// and anything unknown are not categories; filters treat them as "no filter".
func ParseCategory(s string) (Category, bool) {
	switch c := Category(s); c {
	case CategoryTechnology, CategoryLifestyle, CategoryBusiness, CategoryHealth,
		CategoryEducation, CategoryTravel, CategoryFood, CategoryOther:
		return c, true
	}
	return "", false
}

// Status is a post's publication status.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusDraft, StatusPublished:
		return st, true
	}
	return "", false
}

const (
	MaxTitleLen           = 200
	MaxMetaDescriptionLen = 160
	MaxCommentLen         = 500
)

// Post is a single blog article.
type Post struct {
	ID              string         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"type:varchar(200);not null"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	Author          string         `json:"author" gorm:"type:varchar(255);not null"`
	UserID          string         `json:"userId" gorm:"type:varchar(255);index"`
	Tags            pq.StringArray `json:"tags" gorm:"type:text[]"`
	ImageURL        string         `json:"imageUrl,omitempty" gorm:"type:text"`
	Category        Category       `json:"category" gorm:"type:varchar(32);not null;default:'Other';index"`
	Status          Status         `json:"status" gorm:"type:varchar(16);not null;default:'published';index"`
	Views           int64          `json:"views" gorm:"not null;default:0"`
	ReadingTime     int            `json:"readingTime" gorm:"not null;default:0"`
	MetaDescription string         `json:"metaDescription,omitempty" gorm:"type:varchar(160)"`
	LikesCount      int64          `json:"likesCount" gorm:"not null;default:0"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"not null;default:now()"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"not null;default:now()"`
}

// Comment belongs to a post. A nil ParentID marks a root comment; a ParentID
// that no longer resolves is tolerated and rendered as a root.
type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;index"`
	ParentID  *string   `json:"parentId,omitempty" gorm:"type:uuid;index"`
	Author    string    `json:"author" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Like is a user-to-post relation, at most one per (post, user) pair.
type Like struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_likes_post_user"`
	UserID    string    `json:"userId" gorm:"type:varchar(255);not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Bookmark mirrors Like in a separate table.
type Bookmark struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_bookmarks_post_user"`
	UserID    string    `json:"userId" gorm:"type:varchar(255);not null;uniqueIndex:idx_bookmarks_post_user"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// NewsletterSubscription holds one subscriber email, stored lowercased.
type NewsletterSubscription struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;default:now()"`
}

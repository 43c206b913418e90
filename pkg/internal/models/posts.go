package models

import "time"

const (
	MaxPostLength    = 250
	MaxCommentLength = 250
)

type Post struct {
	BaseModel

	Content  string  `json:"content"`
	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author"`

	Comments []Comment `json:"comments,omitempty"`

	// TotalLikes is a derived cache of the Like set cardinality. It is
	// recomputed from the likes table after every mutation, never adjusted
	// in place.
	TotalLikes int64 `json:"total_likes"`
}

// Like is the source of truth for the post's counter. At most one row per
// (post, account) pair, enforced by the composite primary key.
type Like struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey;autoIncrement:false"`
	PostID    uint      `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	BaseModel

	Content  string  `json:"content"`
	PostID   uint    `json:"post_id"`
	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author"`
}

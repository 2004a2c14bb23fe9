package models

import (
	"time"

	"github.com/lib/pq"
)

// Confession is an anonymous post on the public feed. Reported confessions
// stay in the table but are hidden from listings until a moderator rules on
// them.
type Confession struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Upvotes     int            `json:"upvotes"`
	Downvotes   int            `json:"downvotes"`
	Replies     []Reply        `gorm:"foreignKey:ConfessionID" json:"replies"`
	IsReported  bool           `gorm:"index" json:"isReported"`
	ReportCount int            `json:"reportCount"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Score is the vote score used for trending order.
func (c *Confession) Score() int {
	return c.Upvotes - c.Downvotes
}

// Reply is an anonymous reply to a confession.
type Reply struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	ConfessionID string    `gorm:"type:text;not null;index" json:"confessionId"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Package entity defines the domain entities for the blog feature.
package entity

import "time"

// RecordStatus marks whether a post is live or soft-deleted.
type RecordStatus string

const (
	StatusLatest  RecordStatus = "LATEST"
	StatusDeleted RecordStatus = "DELETED"
)

// Blog is a single post. Deletion only flips RecordStatus.
type Blog struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"size:255;not null" json:"title"`
	Content      string       `gorm:"type:text;not null" json:"content"`
	Author       string       `gorm:"size:120;not null" json:"author"`
	AuthorID     uint         `gorm:"index;not null" json:"author_id"`
	RecordStatus RecordStatus `gorm:"size:16;index;not null;default:LATEST" json:"record_status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsDeleted reports whether the post has been soft-deleted.
func (b *Blog) IsDeleted() bool {
	return b.RecordStatus == StatusDeleted
}

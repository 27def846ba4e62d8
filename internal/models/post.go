package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Points    int       `gorm:"default:0;not null" json:"points"`
	CreatorID uint      `gorm:"not null;index" json:"creator_id"`
	Creator   *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Not stored, filled per viewer at query time
	VoteStatus *int `gorm:"-" json:"vote_status"`
}

// BeforeCreate truncates timestamps to the millisecond so a post's cursor compares exactly against its own row.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		now := time.Now().Truncate(time.Millisecond)
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	return nil
}

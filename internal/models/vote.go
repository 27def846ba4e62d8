package models

// Vote is keyed by (user_id, post_id), so a user holds at most one vote per post.
type Vote struct {
	UserID uint  `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID uint  `gorm:"primaryKey;autoIncrement:false;index" json:"post_id"`
	Value  int   `gorm:"not null" json:"value"` // 1 or -1
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Post   *Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

package models

import "time"

// Contact is a directed follow edge from UserFromID to UserToID
type Contact struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserFromID uint      `json:"user_from" gorm:"index;uniqueIndex:idx_contact_pair;not null"`
	UserToID   uint      `json:"user_to" gorm:"index;uniqueIndex:idx_contact_pair;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

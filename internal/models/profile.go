package models

import "time"

// DateLayout is the wire format of Profile.DateOfBirth
const DateLayout = "2006-01-02"

// Profile holds the per-user data kept outside the identity store
type Profile struct {
	ID          uint       `json:"-" gorm:"primaryKey"`
	UserID      uint       `json:"-" gorm:"uniqueIndex;not null"`
	DateOfBirth *time.Time `json:"date_of_birth" gorm:"type:date"`
	Photo       string     `json:"photo" gorm:"size:255"`
}

// ProfileEditRequest is the profile half of the profile edit form
type ProfileEditRequest struct {
	DateOfBirth string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Photo       string `json:"photo" form:"photo" validate:"omitempty,max=255"`
}

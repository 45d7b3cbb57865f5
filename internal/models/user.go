package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account in the identity store
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	Email     string    `json:"email" gorm:"size:254;index"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	IsActive  bool      `json:"is_active" gorm:"index"`
	CreatedAt time.Time `json:"date_joined"`
	UpdatedAt time.Time `json:"-"`
	Profile   *Profile  `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// UserRegistrationRequest is the registration form
type UserRegistrationRequest struct {
	Username  string `json:"username" form:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	Password  string `json:"password" form:"password" validate:"required,min=8"`
	Password2 string `json:"password2" form:"password2" validate:"required,eqfield=Password"`
}

// LoginRequest is the login form
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserEditRequest is the account half of the profile edit form
type UserEditRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=150"`
	Email     string `json:"email" form:"email" validate:"omitempty,email,max=254"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

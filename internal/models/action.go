package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TargetUser is the target kind of actions performed on a user
const TargetUser = "user"

// Target references any entity by kind and id
type Target struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// Action is an append-only activity log entry. Stored in the relational store
// or in MongoDB, so it carries both gorm and bson tags.
type Action struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID     uint      `json:"user_id" gorm:"index;not null" bson:"user_id"`
	Verb       string    `json:"verb" gorm:"size:255;not null" bson:"verb"`
	TargetKind string    `json:"target_kind,omitempty" gorm:"size:30;index:idx_action_target" bson:"target_kind,omitempty"`
	TargetID   *uint     `json:"target_id,omitempty" gorm:"index:idx_action_target" bson:"target_id,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index" bson:"created_at"`
}

// NewActionID returns a time-ordered id so that id order follows creation order.
func NewActionID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// BeforeCreate assigns the id for the relational store
func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewActionID()
	}
	return nil
}

// Target returns the action's target, if it has one.
func (a Action) Target() (Target, bool) {
	if a.TargetKind == "" || a.TargetID == nil {
		return Target{}, false
	}
	return Target{Kind: a.TargetKind, ID: *a.TargetID}, true
}

// SetTarget points the action at t; nil clears it.
func (a *Action) SetTarget(t *Target) {
	if t == nil {
		a.TargetKind, a.TargetID = "", nil
		return
	}
	id := t.ID
	a.TargetKind, a.TargetID = t.Kind, &id
}

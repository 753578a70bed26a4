package domain

import "time"

type BranchType string

const (
	BranchTypeGeneric BranchType = "generic"
	BranchTypeMoked   BranchType = "moked"
)

type Branch struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Username               string     `json:"username"`
	PasswordHash           string     `json:"-"`
	Email                  string     `json:"email"`
	IsAdmin                bool       `json:"isAdmin"`
	Type                   BranchType `json:"type"`
	LastScheduleTransition *time.Time `json:"lastScheduleTransition,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	Version                int32      `json:"-"`
}

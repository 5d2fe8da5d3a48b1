package model

import "time"

// User is a portal account
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Fullname  string
	Role      UserRole `gorm:"type:text;not null"`
	IsActive  bool
	CreatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user holds one of roles. Admins hold every role.
func (u *User) HasRole(roles ...UserRole) bool {
	if u.Role == UserRoleAdmin {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

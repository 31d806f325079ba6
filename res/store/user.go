package store

import "time"

type UserRole string

const (
	UserRoleStaff UserRole = "STAFF" // Can view submissions and work the calendar
	UserRoleAdmin UserRole = "ADMIN" // Full admin panel access (pricing, email settings, deletion)
)

type User struct {
	ID          string   `gorm:"primaryKey;size:50;unique" json:"id"`
	DisplayName string   `gorm:"size:50;not null" json:"displayName"`
	Role        UserRole `gorm:"size:50;not null;default:'STAFF'" json:"role"`

	GoogleIdentity *string `gorm:"size:256;unique" json:"-"`
	Email          string  `gorm:"size:256;not null" json:"email"`

	UpdatedAt time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"createdAt"`
}

// IsAdmin checks if the user has full admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsStaff checks if the user is a staff member
func (u *User) IsStaff() bool {
	return u.Role == UserRoleStaff
}

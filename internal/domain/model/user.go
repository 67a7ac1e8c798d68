package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User mirrors an identity-provider account; Subject is the provider's stable id.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Subject   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	FullName  string    `gorm:"type:varchar(255)" json:"full_name"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

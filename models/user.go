package models

import (
	"time"
)

// Role names. A user holds any combination of these; there is no hierarchy.
const (
	RoleAuthor   = "author"
	RoleReviewer = "reviewer"
	RoleEditor   = "editor"
)

type User struct {
	UserID      uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email       string     `gorm:"column:email;unique" json:"email"`
	Password    string     `gorm:"column:password" json:"-"`
	FullName    string     `gorm:"column:full_name" json:"full_name"`
	Affiliation string     `gorm:"column:affiliation" json:"affiliation"`
	OrcidID     *string    `gorm:"column:orcid_id" json:"orcid_id,omitempty"`
	Bio         string     `gorm:"column:bio;type:text" json:"bio"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles;foreignKey:UserID;joinForeignKey:UserID;references:RoleID;joinReferences:RoleID" json:"roles,omitempty"`
}

type Role struct {
	RoleID   uint       `gorm:"primaryKey;column:role_id" json:"role_id"`
	Name     string     `gorm:"column:name;unique" json:"name"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
}

// HasRole reports set membership; roles are capabilities, not a hierarchy.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames flattens the role set for JWT claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Avatar       string     `json:"avatar" gorm:"size:500"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);default:'user'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Orders    []Order    `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	Favorites []Favorite `json:"favorites,omitempty" gorm:"foreignKey:UserID"`
	Comments  []Comment  `json:"comments,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// PublicProfile is the shape embedded in order, comment and stats payloads.
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID.String(),
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}

package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Username      *string    `gorm:"uniqueIndex;column:username" json:"username,omitempty"`
	Password      string     `gorm:"not null;column:password" json:"-"`
	FirstName     string     `gorm:"column:first_name" json:"first_name"`
	LastName      string     `gorm:"column:last_name" json:"last_name"`
	Bio           string     `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL     string     `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	EmailVerified bool       `gorm:"column:email_verified;not null" json:"email_verified"`
	IsActive      bool       `gorm:"column:is_active;not null" json:"is_active"`
	LastLogin     *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

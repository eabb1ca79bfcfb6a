package model

import "time"

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;type:varchar(80);not null" json:"name"`

	Email string `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`

	// bcrypt hash, never serialized.
	Password string `gorm:"column:password;type:varchar(255);not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

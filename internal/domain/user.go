// internal/domain/user.go
package domain

import (
	"time"
)

// User представляет модель пользователя трекера.
// Соответствует таблице 'users' в бд (и коллекции users в MongoDB).
type User struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

func (User) TableName() string {
	return "users"
}

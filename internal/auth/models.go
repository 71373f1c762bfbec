package auth

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:user"`
	City         string
	Address      string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	JTI       string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

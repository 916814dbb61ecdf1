package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;index"`
	Instansi     string    `gorm:"column:instansi"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

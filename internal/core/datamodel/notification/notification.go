package notification

import "time"

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	Message   string    `gorm:"column:message;not null"`
	Link      string    `gorm:"column:link"`
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

package approval

import "time"

type Approval struct {
	ID              int64      `gorm:"primaryKey"`
	CRID            string     `gorm:"column:cr_id;not null;index"`
	ChangeRequestID *string    `gorm:"column:change_request_id;index"`
	Title           string     `gorm:"column:title;not null"`
	Status          string     `gorm:"column:status;not null;index"`
	Type            string     `gorm:"column:type;not null"`
	Description     string     `gorm:"column:description"`
	RequestedBy     string     `gorm:"column:requested_by"`
	RequesterID     *string    `gorm:"column:requester_id"`
	RequestedDate   time.Time  `gorm:"column:requested_date"`
	Department      string     `gorm:"column:department"`
	DecidedBy       *string    `gorm:"column:decided_by"`
	DecidedAt       *time.Time `gorm:"column:decided_at"`
	Reason          *string    `gorm:"column:reason"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Approval) TableName() string {
	return "approvals"
}

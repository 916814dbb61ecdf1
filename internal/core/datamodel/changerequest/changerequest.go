package changerequest

import "time"

type ChangeRequest struct {
	ID          string    `gorm:"primaryKey;size:32"`
	Title       string    `gorm:"column:title;not null"`
	Dinas       string    `gorm:"column:dinas;not null"`
	Catalog     string    `gorm:"column:catalog"`
	SubCatalog  string    `gorm:"column:sub_catalog"`
	BMDID       string    `gorm:"column:bmd_id"`
	Status      string    `gorm:"column:status;not null;index"`
	Type        string    `gorm:"column:type;not null"`
	Notes       string    `gorm:"column:notes"`
	RequestedBy string    `gorm:"column:requested_by;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	AffectedAssets []AffectedAsset `gorm:"foreignKey:ChangeRequestID"`
	Inspection     *Inspection     `gorm:"foreignKey:ChangeRequestID"`
	Schedule       *Schedule       `gorm:"foreignKey:ChangeRequestID"`
	Tracking       []StatusEvent   `gorm:"foreignKey:ChangeRequestID"`
}

func (ChangeRequest) TableName() string {
	return "change_requests"
}

type AffectedAsset struct {
	ID              int64  `gorm:"primaryKey"`
	ChangeRequestID string `gorm:"column:change_request_id;not null;index"`
	BMDID           string `gorm:"column:bmd_id;not null"`
	AssetName       string `gorm:"column:asset_name;not null"`
}

func (AffectedAsset) TableName() string {
	return "change_request_assets"
}

type Inspection struct {
	ID                string    `gorm:"primaryKey;size:32"`
	ChangeRequestID   string    `gorm:"column:change_request_id;not null;uniqueIndex"`
	InspectionDate    time.Time `gorm:"column:inspection_date"`
	Result            string    `gorm:"column:result"`
	EstimatedCost     string    `gorm:"column:estimated_cost"`
	EstimatedDuration string    `gorm:"column:estimated_duration"`
	ImpactScore       int       `gorm:"column:impact_score"`
	LikelihoodScore   int       `gorm:"column:likelihood_score"`
	ExposureScore     int       `gorm:"column:exposure_score"`
	RiskScore         int       `gorm:"column:risk_score"`
}

func (Inspection) TableName() string {
	return "change_request_inspections"
}

type Schedule struct {
	ID              int64     `gorm:"primaryKey"`
	ChangeRequestID string    `gorm:"column:change_request_id;not null;uniqueIndex"`
	ScheduledDate   time.Time `gorm:"column:scheduled_date"`
	ScheduledTime   string    `gorm:"column:scheduled_time"`
	Implementer     string    `gorm:"column:implementer"`
	BackoutPlan     string    `gorm:"column:backout_plan"`
}

func (Schedule) TableName() string {
	return "change_request_schedules"
}

// StatusEvent is one row of the status tracking timeline. The dashboard trend
// aggregates over these rows.
type StatusEvent struct {
	ID              int64     `gorm:"primaryKey"`
	ChangeRequestID string    `gorm:"column:change_request_id;not null;index"`
	Status          string    `gorm:"column:status;not null"`
	Actor           string    `gorm:"column:actor"`
	OccurredAt      time.Time `gorm:"column:occurred_at;not null;index"`
}

func (StatusEvent) TableName() string {
	return "change_request_events"
}

// PatchJob is a scheduled patch window. Only its count surfaces on the
// dashboard.
type PatchJob struct {
	ID          string     `gorm:"primaryKey;size:32"`
	Name        string     `gorm:"column:name;not null"`
	Status      string     `gorm:"column:status;not null"`
	ScheduledAt *time.Time `gorm:"column:scheduled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (PatchJob) TableName() string {
	return "patch_jobs"
}

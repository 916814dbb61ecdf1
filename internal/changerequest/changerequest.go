package changerequest

import (
	"errors"
	"time"

	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
)

type Status string

const (
	StatusSubmitted    Status = "Submitted"
	StatusInspected    Status = "Inspected"
	StatusApproved     Status = "Approved"
	StatusScheduled    Status = "Scheduled"
	StatusImplementing Status = "Implementing"
	StatusCompleted    Status = "Completed"
	StatusRejected     Status = "Rejected"
)

var Statuses = []Status{StatusSubmitted, StatusInspected, StatusApproved, StatusScheduled, StatusImplementing, StatusCompleted, StatusRejected}

type Type string

const (
	TypeMinor     Type = "minor"
	TypeStandard  Type = "standard"
	TypeMajor     Type = "major"
	TypeEmergency Type = "emergency"
)

var Types = []Type{TypeMinor, TypeStandard, TypeMajor, TypeEmergency}

func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

var ErrInvalidStatus = errors.New("invalid change request status")

// ChangeRequest is the list view of a change request.
type ChangeRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Dinas       string    `json:"dinas"`
	Catalog     string    `json:"catalog"`
	SubCatalog  string    `json:"subCatalog"`
	BMDID       string    `json:"bmdId"`
	Status      Status    `json:"status"`
	Type        Type      `json:"type"`
	RiskScore   *int      `json:"riskScore,omitempty"`
	RequestedBy string    `json:"requestedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Detail adds everything the detail page shows.
type Detail struct {
	ChangeRequest
	Notes                  string          `json:"notes"`
	AffectedAssets         []AffectedAsset `json:"affectedAssets"`
	Inspection             *Inspection     `json:"inspection"`
	ImplementationSchedule *Schedule       `json:"implementationSchedule"`
	StatusTracking         []StatusEvent   `json:"statusTracking"`
}

type AffectedAsset struct {
	BMDID     string `json:"bmdId"`
	AssetName string `json:"assetName"`
}

type Inspection struct {
	InspectionID      string    `json:"inspectionId"`
	InspectionDate    time.Time `json:"inspectionDate"`
	Result            string    `json:"inspectionResult"`
	EstimatedCost     string    `json:"estimatedCost"`
	EstimatedDuration string    `json:"estimatedDuration"`
	ImpactScore       int       `json:"impactScore"`
	LikelihoodScore   int       `json:"likelihoodScore"`
	ExposureScore     int       `json:"exposureScore"`
	RiskScore         int       `json:"riskScore"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevel buckets the stored risk score: below 30 is low, 50 and above high.
func (i *Inspection) RiskLevel() RiskLevel {
	switch {
	case i.RiskScore >= 50:
		return RiskHigh
	case i.RiskScore >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

type Schedule struct {
	ScheduledDate time.Time `json:"scheduledDate"`
	ScheduledTime string    `json:"scheduledTime"`
	Implementer   string    `json:"implementer"`
	BackoutPlan   string    `json:"backoutPlan"`
}

type StatusEvent struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
	By     string    `json:"by"`
}

// Fields is the record as seen by filter expressions.
func (c ChangeRequest) Fields() map[string]any {
	fields := map[string]any{
		"id":          c.ID,
		"title":       c.Title,
		"dinas":       c.Dinas,
		"catalog":     c.Catalog,
		"status":      string(c.Status),
		"type":        string(c.Type),
		"requestedBy": c.RequestedBy,
	}
	if c.RiskScore != nil {
		fields["riskScore"] = *c.RiskScore
	}
	return fields
}

func FromDataModel(m *crDatamodel.ChangeRequest) ChangeRequest {
	cr := ChangeRequest{
		ID:          m.ID,
		Title:       m.Title,
		Dinas:       m.Dinas,
		Catalog:     m.Catalog,
		SubCatalog:  m.SubCatalog,
		BMDID:       m.BMDID,
		Status:      Status(m.Status),
		Type:        Type(m.Type),
		RequestedBy: m.RequestedBy,
		CreatedAt:   m.CreatedAt,
	}
	if m.Inspection != nil {
		score := m.Inspection.RiskScore
		cr.RiskScore = &score
	}
	return cr
}

func DetailFromDataModel(m *crDatamodel.ChangeRequest) *Detail {
	d := &Detail{
		ChangeRequest:  FromDataModel(m),
		Notes:          m.Notes,
		AffectedAssets: make([]AffectedAsset, 0, len(m.AffectedAssets)),
		StatusTracking: make([]StatusEvent, 0, len(m.Tracking)),
	}
	for _, a := range m.AffectedAssets {
		d.AffectedAssets = append(d.AffectedAssets, AffectedAsset{BMDID: a.BMDID, AssetName: a.AssetName})
	}
	if in := m.Inspection; in != nil {
		d.Inspection = &Inspection{
			InspectionID:      in.ID,
			InspectionDate:    in.InspectionDate,
			Result:            in.Result,
			EstimatedCost:     in.EstimatedCost,
			EstimatedDuration: in.EstimatedDuration,
			ImpactScore:       in.ImpactScore,
			LikelihoodScore:   in.LikelihoodScore,
			ExposureScore:     in.ExposureScore,
			RiskScore:         in.RiskScore,
		}
	}
	if s := m.Schedule; s != nil {
		d.ImplementationSchedule = &Schedule{
			ScheduledDate: s.ScheduledDate,
			ScheduledTime: s.ScheduledTime,
			Implementer:   s.Implementer,
			BackoutPlan:   s.BackoutPlan,
		}
	}
	for _, e := range m.Tracking {
		d.StatusTracking = append(d.StatusTracking, StatusEvent{Status: Status(e.Status), Date: e.OccurredAt, By: e.Actor})
	}
	return d
}

package approval

import (
	"time"

	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
)

type Status string

const (
	StatusNeedApproval Status = "NEED APPROVAL"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
)

var Statuses = []Status{StatusNeedApproval, StatusApproved, StatusRejected}

type Type string

const (
	TypeMinor    Type = "minor"
	TypeStandard Type = "standard"
	TypeMajor    Type = "major"
)

var Types = []Type{TypeMinor, TypeStandard, TypeMajor}

// TypeForChangeRequest maps a change request type onto the approval types.
// Emergency changes go through the major track.
func TypeForChangeRequest(crType string) Type {
	switch Type(crType) {
	case TypeMinor, TypeStandard, TypeMajor:
		return Type(crType)
	default:
		return TypeMajor
	}
}

type Approval struct {
	ID              int64      `json:"id"`
	CRID            string     `json:"crId"`
	ChangeRequestID string     `json:"changeRequestId,omitempty"`
	Title           string     `json:"title"`
	Status          Status     `json:"status"`
	Type            Type       `json:"type"`
	Description     string     `json:"description"`
	RequestedBy     string     `json:"requestedBy"`
	RequestedDate   time.Time  `json:"requestedDate"`
	Department      string     `json:"department"`
	DecidedBy       string     `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time `json:"decidedAt,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

// Pending reports whether a decision can still be taken.
func (a Approval) Pending() bool {
	return a.Status == StatusNeedApproval
}

func (a Approval) Fields() map[string]any {
	return map[string]any{
		"id":          a.ID,
		"crId":        a.CRID,
		"title":       a.Title,
		"status":      string(a.Status),
		"type":        string(a.Type),
		"requestedBy": a.RequestedBy,
		"department":  a.Department,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func FromDataModel(m *approvalDatamodel.Approval) Approval {
	return Approval{
		ID:              m.ID,
		CRID:            m.CRID,
		ChangeRequestID: deref(m.ChangeRequestID),
		Title:           m.Title,
		Status:          Status(m.Status),
		Type:            Type(m.Type),
		Description:     m.Description,
		RequestedBy:     m.RequestedBy,
		RequestedDate:   m.RequestedDate,
		Department:      m.Department,
		DecidedBy:       deref(m.DecidedBy),
		DecidedAt:       m.DecidedAt,
		Reason:          deref(m.Reason),
	}
}

package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeChangeRequestSubmitted = "change_request.submitted"
	EventTypeApprovalDecided        = "approval.decided"
)

type ChangeRequestSubmittedEvent struct {
	BaseEvent
	ChangeRequestID string `json:"change_request_id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	Dinas           string `json:"dinas"`
	RequesterID     string `json:"requester_id"`
	RequesterName   string `json:"requester_name"`
}

func NewChangeRequestSubmittedEvent(crID, title, crType, description, dinas, requesterID, requesterName string) *ChangeRequestSubmittedEvent {
	return &ChangeRequestSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeChangeRequestSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"change_request_id": crID,
				"title":             title,
				"type":              crType,
				"dinas":             dinas,
				"requester_id":      requesterID,
			},
		},
		ChangeRequestID: crID,
		Title:           title,
		Type:            crType,
		Description:     description,
		Dinas:           dinas,
		RequesterID:     requesterID,
		RequesterName:   requesterName,
	}
}

type ApprovalDecidedEvent struct {
	BaseEvent
	ApprovalID      int64  `json:"approval_id"`
	CRID            string `json:"cr_id"`
	ChangeRequestID string `json:"change_request_id,omitempty"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	DecidedBy       string `json:"decided_by"`
	RequesterID     string `json:"requester_id,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

func NewApprovalDecidedEvent(approvalID int64, crID, changeRequestID, title, status, decidedBy, requesterID, reason string) *ApprovalDecidedEvent {
	return &ApprovalDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApprovalDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"approval_id": approvalID,
				"cr_id":       crID,
				"status":      status,
				"decided_by":  decidedBy,
			},
		},
		ApprovalID:      approvalID,
		CRID:            crID,
		ChangeRequestID: changeRequestID,
		Title:           title,
		Status:          status,
		DecidedBy:       decidedBy,
		RequesterID:     requesterID,
		Reason:          reason,
	}
}

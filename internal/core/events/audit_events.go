package events

import (
	"time"

	"github.com/google/uuid"
)

// Audit event types mirrored into the structured audit log by the HTTP
// server's subscriber.
const (
	EventTypeUserRegistered = "auth.registered"
	EventTypeUserLoggedIn   = "auth.login"
	EventTypeUserLoggedOut  = "auth.logout"
	EventTypeLoginFailed    = "auth.login_failed"

	EventTypeCaseCreated = "case.created"
	EventTypeCaseUpdated = "case.updated"
	EventTypeCaseDeleted = "case.deleted"
)

func NewAuthEvent(eventType string, userID int64, email string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
		},
	}
}

func NewCaseEvent(eventType string, caseID, actorID int64, patientCode string, changes map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"case_id":      caseID,
		"actor_id":     actorID,
		"patient_code": patientCode,
	}
	if len(changes) > 0 {
		data["changes"] = changes
	}
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

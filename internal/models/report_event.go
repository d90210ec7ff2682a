package models

import "time"

const (
	EventReportCreated      = "report.created"
	EventReportTransitioned = "report.transitioned"
	EventReportDeleted      = "report.deleted"
)

// ReportEvent is the message published to the notification queue after
// a lifecycle change has been committed.
type ReportEvent struct {
	Type       string    `json:"type"`
	ReportID   uint      `json:"reportId"`
	Folio      string    `json:"folio"`
	StateID    uint      `json:"stateId"`
	ActorID    uint      `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}

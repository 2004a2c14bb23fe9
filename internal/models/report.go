package models

import "gorm.io/gorm"

// Report target types.
const (
	ReportTargetConfession = "confession"
	ReportTargetMessage    = "message"
)

// Report statuses.
const (
	ReportStatusNew      = "new"
	ReportStatusResolved = "resolved"
)

// Report is a user complaint about a confession or a chat message. Chat
// message reports carry only the relayed message id; the relay buffer itself
// is never touched by moderation.
type Report struct {
	gorm.Model

	// TargetID is the id of the reported confession or chat message.
	TargetID string `gorm:"type:text;not null;index" json:"targetId"`
	// TargetType is either "confession" or "message".
	TargetType string `gorm:"type:text;not null" json:"targetType"`
	Reason     string `gorm:"type:text;not null" json:"reason"`
	ReporterID string `gorm:"type:text;not null" json:"reporterId"`
	Status     string `gorm:"type:text;not null;index" json:"status"`
}

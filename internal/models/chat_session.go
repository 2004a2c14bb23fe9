package models

import "time"

// ChatSession is the record written when a room is destroyed: ids, timestamps
// and a message count, nothing else. Message content stays in memory only.
type ChatSession struct {
	RoomID    string    `gorm:"primaryKey" json:"roomId"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Messages  int       `json:"messages"`
}

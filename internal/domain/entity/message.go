package entity

import "time"

// Message direction
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// MessageRecord is one logged message, inbound or outbound
type MessageRecord struct {
	ID          string    `bson:"_id" json:"id"`
	Direction   string    `bson:"direction" json:"direction"`
	UserID      string    `bson:"userId" json:"userId"`
	ContactName string    `bson:"contactName,omitempty" json:"contactName,omitempty"`
	Text        string    `bson:"text" json:"text"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

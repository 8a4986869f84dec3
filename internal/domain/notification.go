package domain

import "time"

// Notification kinds written by the match and vouch services.
const (
	NotifMatchRequested = "match_requested"
	NotifMatchAccepted  = "match_accepted"
	NotifVouchReceived  = "vouch_received"
)

type Notification struct {
	NotificationID string    `json:"id" dynamodbav:"notification_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Kind           string    `json:"kind" dynamodbav:"kind"`
	ActorID        string    `json:"actor_id" dynamodbav:"actor_id"`
	Message        string    `json:"message" dynamodbav:"message"`
	Readed         int       `json:"readed" dynamodbav:"readed"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

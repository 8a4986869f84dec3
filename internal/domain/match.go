package domain

import "time"

// Match request lifecycle: pending is the only non-terminal state.
const (
	MatchStatusPending  = "pending"
	MatchStatusAccepted = "accepted"
	MatchStatusRejected = "rejected"
)

// MatchRequest is a directed connection proposal from requester to target.
// PK: pair_id ("<requester_id>#<target_id>"). The table holds at most one
// record per ordered pair, which is what makes concurrent creates collapse
// to a single winner.
type MatchRequest struct {
	PairID      string    `json:"-" dynamodbav:"pair_id"`
	RequestID   string    `json:"id" dynamodbav:"request_id"`
	RequesterID string    `json:"requester_id" dynamodbav:"requester_id"`
	TargetID    string    `json:"target_id" dynamodbav:"target_id"`
	Status      string    `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`

	Requester *ProfileSummary `json:"requester,omitempty" dynamodbav:"-"`
	Target    *ProfileSummary `json:"target,omitempty" dynamodbav:"-"`
}

// MatchPairID builds the pair partition key for an ordered (requester, target) pair.
func MatchPairID(requesterID, targetID string) string {
	return requesterID + "#" + targetID
}

// IsTerminalMatchStatus reports whether no further transition is allowed.
func IsTerminalMatchStatus(status string) bool {
	return status == MatchStatusAccepted || status == MatchStatusRejected
}

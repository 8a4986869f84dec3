package domain

import "time"

// Vouch is a directed trust edge voucher -> vouchee.
// PK: voucher_id, SK: vouchee_id. The composite key holds the
// one-vouch-per-ordered-pair invariant. Vouches are append-only.
type Vouch struct {
	VoucherID string    `json:"voucher_id" dynamodbav:"voucher_id"`
	VoucheeID string    `json:"vouchee_id" dynamodbav:"vouchee_id"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`

	Voucher *ProfileSummary `json:"voucher,omitempty" dynamodbav:"-"`
}

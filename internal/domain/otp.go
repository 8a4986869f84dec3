package domain

// OtpCode is a one-time login code issued to an email address.
// PK: email. Issuing a new code for an email replaces the previous one,
// so at most one code is valid per email at any time.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OtpCode struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"code" dynamodbav:"code"`
	IssuedAt  int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

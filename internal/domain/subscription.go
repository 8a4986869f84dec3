package domain

import "time"

const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"

	PlanFree       = "free"
	PlanVantagePro = "vantage_pro"
)

// Subscription is the locally stored entitlement derived from RevenueCat
// webhook events. PK: app_user_id (the billing provider's identity).
// Only the billing service writes it; end-user requests never mutate it.
type Subscription struct {
	AppUserID    string    `json:"app_user_id" dynamodbav:"app_user_id"`
	Status       string    `json:"status" dynamodbav:"status"`
	Plan         string    `json:"plan" dynamodbav:"plan"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds, period end
	RevenueCatID string    `json:"revenue_cat_id" dynamodbav:"revenue_cat_id"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// RevenueCat webhook event types this backend understands.
const (
	EventInitialPurchase = "INITIAL_PURCHASE"
	EventRenewal         = "RENEWAL"
	EventCancellation    = "CANCELLATION"
	EventExpiration      = "EXPIRATION"
)

// WebhookEvent is the already-signature-validated payload handed to the
// billing service. ExpiresAt is the entitlement period end from the
// provider payload.
type WebhookEvent struct {
	ID          string `json:"id"`
	Type        string `json:"type" validate:"required"`
	AppUserID   string `json:"app_user_id" validate:"required"`
	ProductID   string `json:"product_id"`
	ExpiresAtMs int64  `json:"expiration_at_ms,omitempty"`
}

// ExpiresAt returns the entitlement period end as Unix seconds.
func (e WebhookEvent) ExpiresAt() int64 {
	return e.ExpiresAtMs / 1000
}

// PlanFromProduct maps a store product identifier to a local plan name.
func PlanFromProduct(productID string) string {
	if productID == PlanVantagePro {
		return PlanVantagePro
	}
	return PlanFree
}

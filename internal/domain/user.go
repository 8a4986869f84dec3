package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	UserID      string     `json:"id" dynamodbav:"user_id"`
	Email       string     `json:"email" dynamodbav:"email"`
	DisplayName string     `json:"display_name" dynamodbav:"display_name"`
	Bio         string     `json:"bio,omitempty" dynamodbav:"bio"`
	Phone       *string    `json:"phone,omitempty" dynamodbav:"phone"`
	PhotoURL    string     `json:"photo_url,omitempty" dynamodbav:"photo_url"`
	Role        string     `json:"role" dynamodbav:"role"`
	Enable      int        `json:"enable" dynamodbav:"enable"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Phone       *string `json:"phone"`
	Role        *string `json:"role"`
}

// ProfileSummary is the subset of a user's profile embedded in vouch and
// match listings.
type ProfileSummary struct {
	UserID      string `json:"id" dynamodbav:"user_id"`
	DisplayName string `json:"display_name" dynamodbav:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty" dynamodbav:"photo_url"`
}

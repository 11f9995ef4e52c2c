package domain

import "time"

// User is keyed by phone number. PhoneVerified only ever flips to true
// through a successful verification.
type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	PhoneNumber   string    `json:"phone_number" dynamodbav:"phone_number"`
	FirstName     *string   `json:"first_name,omitempty" dynamodbav:"first_name,omitempty"`
	PhoneVerified bool      `json:"phone_verified" dynamodbav:"phone_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// UserUpsert describes a merge into the user keyed by PhoneNumber.
// A nil FirstName leaves the stored value alone; PhoneVerified=false never clears the flag.
type UserUpsert struct {
	PhoneNumber   string
	FirstName     *string
	PhoneVerified bool
}

type UpdateUserRequest struct {
	PhoneNumber string  `json:"phoneNumber" validate:"required,phone"`
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=100"`
}

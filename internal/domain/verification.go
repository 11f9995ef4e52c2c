package domain

import "time"

// VerificationRecord is the single pending code for a phone number.
// The code itself never leaves the service: stores only see CodeHash.
type VerificationRecord struct {
	PhoneNumber string    `json:"phone_number"`
	CodeHash    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Live reports whether the record can still be redeemed at now (expires_at >= now).
func (v *VerificationRecord) Live(now time.Time) bool {
	return !now.After(v.ExpiresAt)
}

type SendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

type VerifyCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Code        string `json:"code" validate:"required,otpcode"`
}

// IssueResult is what the state machine hands back to the transport layer.
// Code is only populated when the delivery bypass is enabled.
type IssueResult struct {
	PhoneNumber string
	ExpiresAt   time.Time
	Code        string
	Development bool
}

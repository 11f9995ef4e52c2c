package dynamo

// DynamoDB attribute names used in expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldPhoneNumber   = "phone_number"
	fieldCodeHash      = "code_hash"
	fieldExpiresAt     = "expires_at"    // TTL (Unix seconds)
	fieldExpiresAtMs   = "expires_at_ms" // logical expiry
	fieldUserID        = "user_id"
	fieldFirstName     = "first_name"
	fieldPhoneVerified = "phone_verified"
	fieldCreatedAt     = "created_at"
	fieldUpdatedAt     = "updated_at"
)

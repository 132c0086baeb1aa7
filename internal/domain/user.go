package domain

import "time"

type User struct {
	UserID       string `json:"id" dynamodbav:"user_id"`
	Username     string `json:"username" dynamodbav:"username"`
	Email        string `json:"email" dynamodbav:"email"`
	PasswordHash string `json:"-" dynamodbav:"password_hash"`
	// Confirmed flips exactly once, when a valid email-verify token is redeemed.
	Confirmed bool `json:"confirmed" dynamodbav:"confirmed"`
	// RefreshFingerprint is the SHA-256 of the currently valid refresh token.
	// Empty when the user is logged out. At most one refresh token per user is
	// valid at a time; a presented token whose hash differs is a reuse signal.
	RefreshFingerprint string `json:"-" dynamodbav:"refresh_fingerprint"`
	// ResetTokenHash is set while a password recovery is pending and cleared on
	// the first redemption attempt, making reset tokens single-use.
	ResetTokenHash string    `json:"-" dynamodbav:"reset_token_hash"`
	AvatarURL      string    `json:"avatar_url,omitempty" dynamodbav:"avatar_url"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=4,max=50"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

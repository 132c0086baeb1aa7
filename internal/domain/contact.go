package domain

import "time"

type Contact struct {
	ContactID   string     `json:"id" dynamodbav:"contact_id"`
	UserID      string     `json:"-" dynamodbav:"user_id"`
	FirstName   string     `json:"first_name" dynamodbav:"first_name"`
	LastName    string     `json:"last_name" dynamodbav:"last_name"`
	Email       string     `json:"email,omitempty" dynamodbav:"email"`
	PhoneNumber string     `json:"phone_number" dynamodbav:"phone_number"`
	Birthday    *time.Time `json:"birthday,omitempty" dynamodbav:"birthday"`
	Position    string     `json:"position,omitempty" dynamodbav:"position"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreateContactRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Email       string `json:"email" validate:"omitempty,email,max=50"`
	PhoneNumber string `json:"phone_number" validate:"required,max=30"`
	Birthday    string `json:"birthday"` // expected format: YYYY-MM-DD
	Position    string `json:"position" validate:"max=50"`
}

type UpdateContactRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
	Position    *string `json:"position" validate:"omitempty,max=50"`
}

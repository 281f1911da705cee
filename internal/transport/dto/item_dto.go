package dto

import (
	"item-api/internal/models"
	"item-api/internal/validation"
)

// ItemPayload is the untyped JSON object received on create and update. It is
// kept untyped so the verifier can tell a missing field from a zero value.
type ItemPayload map[string]any

// ToInput converts a payload that passed verification into an ItemInput.
// Unknown fields such as a client-supplied "id" are dropped.
func (p ItemPayload) ToInput() models.ItemInput {
	name, _ := p["name"].(string)
	price, _ := validation.AsNumber(p["price"])
	return models.ItemInput{Name: name, Price: price}
}

// ValidationErrorResponse is the 400 body listing every violation.
type ValidationErrorResponse struct {
	Errors []validation.VerificationError `json:"errors"`
}

// ErrorResponse is the body for faults that carry a single message.
type ErrorResponse struct {
	Error string `json:"error"`
}

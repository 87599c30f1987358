package entity

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var documentValidator = validator.New()

// ValidateDocument checks a decoded Firestore document against the entity's
// validate tags. Repositories reject documents that fail instead of
// defaulting missing fields.
func ValidateDocument(doc interface{}) error {
	if err := documentValidator.Struct(doc); err != nil {
		return fmt.Errorf("malformed %T document: %w", doc, err)
	}
	return nil
}

// Package validation executes field validators and provides a library of
// reusable predicates and validator constructors for common form rules.
package validation

import "github.com/goliatone/go-ezform/pkg/model"

// RunValidators evaluates validators in declaration order against record and
// returns the messages of the ones that failed, preserving that order. The
// field is valid when the returned slice is empty. Predicate panics are not
// recovered.
func RunValidators(record model.Record, field string, validators []model.Validator) []string {
	messages := make([]string, 0, len(validators))
	for _, validator := range validators {
		if validator.Predicate.Validate(record, field) {
			continue
		}
		messages = append(messages, validator.Message)
	}
	return messages
}

package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New()

// Validate checks every item's struct constraints and that IDs are unique.
func Validate(items []Item) error {
	seen := make(map[string]int, len(items))

	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, formatValidationError(err))
		}
		if first, ok := seen[items[i].ID]; ok {
			return fmt.Errorf("%w: %q at items %d and %d", ErrDuplicateID, items[i].ID, first, i)
		}
		seen[items[i].ID] = i
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}

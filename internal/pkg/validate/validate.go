// Package validate wraps go-playground/validator behind a single helper
// so handlers can check request bodies with one call.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is shared across the process. Custom type or tag registrations belong
// in an init() here, before the first Struct call.
var v = validator.New()

// Struct checks s against its validate tags and flattens any violations
// into one error whose text is safe to return in a 400 response body.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s' validation", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

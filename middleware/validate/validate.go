// Package validate provides the schema validation stage. A route declares
// the body shape; the stage rejects a mismatching body with every
// offending field, or stores the normalized body for the handler.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// PayloadLocalsKey is the fiber locals key holding the validated body
const PayloadLocalsKey = "validated_body"

// Body returns the validation stage for schema
func Body(schema Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := schema.Validate(c.Body())
		if err != nil {
			return err
		}
		c.Locals(PayloadLocalsKey, payload)
		return c.Next()
	}
}

// Payload returns the validated body stored by Body
func Payload(c *fiber.Ctx) (map[string]any, bool) {
	payload, ok := c.Locals(PayloadLocalsKey).(map[string]any)
	return payload, ok
}

// Bind decodes the validated body into dst
func Bind(c *fiber.Ctx, dst any) error {
	payload, ok := Payload(c)
	if !ok {
		return fmt.Errorf("validate: no validated payload on request")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("validate: encode payload: %w", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("validate: decode payload: %w", err)
	}

	return nil
}

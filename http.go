package auth

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

var fallbackEnvelopeBody = []byte(`{"error":{"status":500,"name":"InternalServerError","message":"Internal Server Error"}}`)

// ErrorHandler is the single place where a failure becomes a response.
// Use it as fiber.Config.ErrorHandler.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = loggerOrDefault(logger)

	return func(c *fiber.Ctx, err error) error {
		env := Normalize(err)

		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		if env.Status >= fiber.StatusInternalServerError {
			logger.Error("[%d] %s: %v (request_id=%s)", env.Status, env.Name, err, requestID)
		} else {
			logger.Info("[%d] %s: %s (request_id=%s)", env.Status, env.Name, env.Message, requestID)
		}

		return WriteEnvelope(c, env)
	}
}

// WriteEnvelope writes env as the response body
func WriteEnvelope(c *fiber.Ctx, env Envelope) error {
	body, err := json.Marshal(EnvelopeBody{Error: env})
	if err != nil {
		env = internalEnvelope()
		body = fallbackEnvelopeBody
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(env.Status).Send(body)
}

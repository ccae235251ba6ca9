package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the single error body written for a failed request.
type Envelope struct {
	Status  int          `json:"status"`
	Name    string       `json:"name"`
	Message string       `json:"message"`
	Fields  []FieldIssue `json:"fields,omitempty"`
}

// EnvelopeBody wraps the envelope under the "error" key
type EnvelopeBody struct {
	Error Envelope `json:"error"`
}

// Normalize maps any error into an envelope. It never panics; errors it
// cannot classify become a generic 500.
func Normalize(err error) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			env = internalEnvelope()
		}
	}()

	if err == nil {
		return internalEnvelope()
	}

	var typed *Error
	if errors.As(err, &typed) && typed != nil {
		env = Envelope{
			Status:  typed.Kind.Status(),
			Name:    typed.Kind.Name(),
			Message: typed.message(),
		}
		if typed.Kind == KindValidation && len(typed.Fields) > 0 {
			env.Fields = append([]FieldIssue(nil), typed.Fields...)
		}
		if typed.Kind == KindUnknown {
			env.Message = KindUnknown.DefaultMessage()
		}
		return env
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) && ferr != nil {
		message := ferr.Message
		if ferr.Code >= http.StatusInternalServerError || message == "" {
			message = http.StatusText(ferr.Code)
		}
		return Envelope{
			Status:  ferr.Code,
			Name:    "HTTPError",
			Message: message,
		}
	}

	return internalEnvelope()
}

func internalEnvelope() Envelope {
	return Envelope{
		Status:  KindUnknown.Status(),
		Name:    KindUnknown.Name(),
		Message: KindUnknown.DefaultMessage(),
	}
}

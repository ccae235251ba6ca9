package auth

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// LoginPayload is the login request body. Either email or username
// identifies the account.
type LoginPayload struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Identifier returns the email, falling back to the username
func (p LoginPayload) Identifier() string {
	if s := strings.TrimSpace(p.Email); s != "" {
		return s
	}
	return strings.TrimSpace(p.Username)
}

// Validate checks the payload shape
func (p LoginPayload) Validate() error {
	identifier := p.Identifier()
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, is.Email),
		validation.Field(&p.Username, validation.By(func(any) error {
			if identifier == "" {
				return errors.New("email or username is required")
			}
			return nil
		})),
		validation.Field(&p.Password, validation.Required, validation.Length(1, 256)),
	)
}

// LoginUser is the public view of the logged in account
type LoginUser struct {
	Email string `json:"email"`
	ID    string `json:"id"`
	Role  Role   `json:"role"`
}

// LoginResponse is the successful login body
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	User        LoginUser `json:"user"`
}

type AuthControllerRoutes struct {
	Login string
}

// AuthController exposes the login endpoint
type AuthController struct {
	Logger Logger
	Auth   Authenticator
	Routes *AuthControllerRoutes
}

func NewAuthController(authenticator Authenticator) *AuthController {
	return &AuthController{
		Logger: defLogger{},
		Auth:   authenticator,
		Routes: &AuthControllerRoutes{
			Login: "/login",
		},
	}
}

func (a *AuthController) WithLogger(logger Logger) *AuthController {
	a.Logger = loggerOrDefault(logger)
	return a
}

// Register mounts the controller routes
func (a *AuthController) Register(r fiber.Router) {
	r.Post(a.Routes.Login, a.LoginPost)
}

// LoginPost exchanges credentials for an access token. Every credential
// failure, including a malformed body, produces the same LoginError.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("login parse payload: %v", err)
		return ErrLoginFailed
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("login validate payload: %v", err)
		return ErrLoginFailed
	}

	result, err := a.Auth.Login(c.UserContext(), Credentials{
		Username: payload.Identifier(),
		Password: payload.Password,
	})
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			return ErrLoginFailed
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		AccessToken: result.Token,
		User: LoginUser{
			Email: result.Identity.Subject,
			ID:    string(result.Identity.Role),
			Role:  result.Identity.Role,
		},
	})
}

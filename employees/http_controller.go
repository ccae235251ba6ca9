package employees

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/middleware/validate"
)

// Controller exposes the employee service over HTTP. Authentication,
// authorization and body validation happen in the stages mounted before it.
type Controller struct {
	Service *Service
	Logger  auth.Logger
}

func NewController(service *Service) *Controller {
	return &Controller{
		Service: service,
		Logger:  auth.DefaultLogger(),
	}
}

func (ctl *Controller) WithLogger(logger auth.Logger) *Controller {
	if logger != nil {
		ctl.Logger = logger
	}
	return ctl
}

// List handles GET /employees?department=
func (ctl *Controller) List(c *fiber.Ctx) error {
	department := strings.TrimSpace(c.Query("department"))

	items, err := ctl.Service.List(c.UserContext(), department)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(items)
}

// Create handles POST /employees
func (ctl *Controller) Create(c *fiber.Ctx) error {
	var employee Employee
	if err := validate.Bind(c, &employee); err != nil {
		return err
	}

	created, err := ctl.Service.Create(c.UserContext(), employee)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update handles PATCH /employees/:id
func (ctl *Controller) Update(c *fiber.Ctx) error {
	var patch Patch
	if err := validate.Bind(c, &patch); err != nil {
		return err
	}

	updated, err := ctl.Service.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// Delete handles DELETE /employees/:id
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	deleted, err := ctl.Service.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(deleted)
}

package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	apperrors "dayzone/internal/errors"
	"dayzone/internal/handler"
	authmw "dayzone/internal/middleware"
	"dayzone/internal/service"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Stalker *handler.StalkerHandler
	Wanted  *handler.WantedHandler
	Ledger  *handler.LedgerHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, authService service.AuthService, h Handlers) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	// Secured routes (require a valid, unrevoked token of an existing user)
	secured := api.Group("", authmw.Auth(authService))
	admin := authmw.RequireAdmin

	secured.GET("/auth/me", h.Auth.Me)
	secured.GET("/auth/verify", h.Auth.Verify)
	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/users", h.User.ListUsers, admin)
	secured.PUT("/users/:id", h.User.UpdateUser, admin)
	secured.DELETE("/users/:id", h.User.DeleteUser, admin)

	secured.GET("/stalkers", h.Stalker.List)
	secured.POST("/stalkers", h.Stalker.Create)
	secured.GET("/stalkers/roles/list", h.Stalker.Roles)
	secured.GET("/stalkers/role/:role", h.Stalker.ListByRole)
	secured.GET("/stalkers/:id", h.Stalker.Get)
	secured.PUT("/stalkers/:id", h.Stalker.Update)
	secured.DELETE("/stalkers/:id", h.Stalker.Delete)

	secured.GET("/wanted", h.Wanted.List)
	secured.GET("/wanted/:id", h.Wanted.Get)
	secured.POST("/wanted", h.Wanted.Create, admin)
	secured.PUT("/wanted/:id", h.Wanted.Update, admin)
	secured.DELETE("/wanted/:id", h.Wanted.Delete, admin)

	secured.GET("/finances/operations", h.Ledger.List)
	secured.POST("/finances/operations", h.Ledger.Create)
	secured.GET("/finances/operations/:id", h.Ledger.Get)
	secured.PUT("/finances/operations/:id", h.Ledger.Update)
	secured.DELETE("/finances/operations/:id", h.Ledger.Delete)
	secured.GET("/finances/balance", h.Ledger.Balance)
	secured.GET("/finances/statistics", h.Ledger.Statistics)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface. Failures come back as
// *errors.ValidationError with one entry per field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &apperrors.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

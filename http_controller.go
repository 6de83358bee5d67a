package gate

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterSignupRoutes mounts the invite-gated signup flow on the router.
func RegisterSignupRoutes[T any](app router.Router[T], opts ...SignupControllerOption) {

	controller := NewSignupController(opts...)

	app.
		Get(controller.Routes.Signup, controller.SignupShow).
		SetName("signup.get")

	app.
		Post(controller.Routes.Signup, controller.SignupCreate).
		SetName("signup.post")
}

type SignupControllerRoutes struct {
	Signup string
	Login  string
}

type SignupControllerViews struct {
	Signup  string
	Invalid string
	Expired string
}

type SignupController struct {
	Debug        bool
	Logger       Logger
	Gate         *SignupGate
	Gateway      AuthGateway
	Routes       *SignupControllerRoutes
	Views        *SignupControllerViews
	ErrorHandler router.ErrorHandler
}

type SignupControllerOption func(*SignupController) *SignupController

func NewSignupController(opts ...SignupControllerOption) *SignupController {
	c := &SignupController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &SignupControllerRoutes{
			Signup: "/signup",
			Login:  "/login",
		},
		Views: &SignupControllerViews{
			Signup:  "signup",
			Invalid: "signup_invalid",
			Expired: "signup_expired",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Gate == nil {
		panic("Missing SignupGate in signup controller...")
	}

	if c.Gateway == nil {
		panic("Missing AuthGateway in signup controller...")
	}

	return c
}

// WithSignupGate sets the gate consulted before rendering the form.
func WithSignupGate(gate *SignupGate) SignupControllerOption {
	return func(c *SignupController) *SignupController {
		c.Gate = gate
		return c
	}
}

// WithSignupGateway sets the external auth service accounts are created on.
func WithSignupGateway(gateway AuthGateway) SignupControllerOption {
	return func(c *SignupController) *SignupController {
		c.Gateway = gateway
		return c
	}
}

// WithSignupLogger overrides the controller logger.
func WithSignupLogger(logger Logger) SignupControllerOption {
	return func(c *SignupController) *SignupController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// SignupShow renders the account creation form when the invite link passes
// the gate, or the dedicated expired/invalid pages otherwise. The two
// rejection pages carry different copy on purpose.
func (a *SignupController) SignupShow(ctx router.Context) error {
	token := ctx.Query("token")
	expires := ctx.Query("expires")

	result, err := a.Gate.Check(ctx.Context(), token, expires)
	if err != nil {
		a.Logger.Error("signup show gate check", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	switch result {
	case GateValid:
		return ctx.Render(a.Views.Signup, router.ViewContext{
			"errors":  nil,
			"record":  nil,
			"token":   token,
			"expires": expires,
		})
	case GateExpired:
		return ctx.Render(a.Views.Expired, router.ViewContext{
			"heading": "INVITE LINK EXPIRED",
			"message": "Please request a new link from an admin.",
		})
	default:
		return ctx.Render(a.Views.Invalid, router.ViewContext{
			"heading": "INVALID INVITE LINK",
			"message": "Please request a new link from an admin.",
		})
	}
}

// SignupCreatePayload is the form payload
type SignupCreatePayload struct {
	Token           string `form:"token" json:"token"`
	Expires         string `form:"expires" json:"expires"`
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// GetUsername returns the requested username
func (r SignupCreatePayload) GetUsername() string {
	return r.Username
}

// GetPassword will return the password
func (r SignupCreatePayload) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r SignupCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Expires, validation.Required, is.Digit),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(10, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// SignupCreate re-checks the invite server-side before delegating account
// creation to the auth gateway. Passing the gate once on SignupShow is not
// enough; the link may have been revoked or expired in between.
func (a *SignupController) SignupCreate(ctx router.Context) error {
	payload := new(SignupCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Signup, router.ViewContext{
			"record":     payload,
			"token":      payload.Token,
			"expires":    payload.Expires,
			"validation": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= SIGNUP CREATE ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	result, err := a.Gate.Check(ctx.Context(), payload.Token, payload.Expires)
	if err != nil {
		a.Logger.Error("signup create gate check", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	switch result {
	case GateValid:
		// fall through to account creation
	case GateExpired:
		return ctx.Render(a.Views.Expired, router.ViewContext{
			"heading": "INVITE LINK EXPIRED",
			"message": "Please request a new link from an admin.",
		})
	default:
		return ctx.Render(a.Views.Invalid, router.ViewContext{
			"heading": "INVALID INVITE LINK",
			"message": "Please request a new link from an admin.",
		})
	}

	if _, err := a.Gateway.CreateAccount(ctx.Context(), payload); err != nil {
		a.Logger.Error("signup create account", "error", err)
		return ctx.Render(a.Views.Signup, router.ViewContext{
			"record": payload,
			"errors": map[string]string{
				"account": "Could not create the account. Please try again.",
			},
		})
	}

	return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
}

// ValidateStringEquals checks that the validated value matches str.
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}

package auth

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/edunote/edunote/internal/controller"
	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/server/router"
)

// Controller serves the signup and signin endpoints.
type Controller struct {
	service    *Service
	cookieName string
	secure     bool
	logger     logger.Logger
}

// NewController creates the auth controller. The secure flag marks the
// session cookie Secure, which production deployments should enable.
func NewController(service *Service, cookieName string, secure bool, log logger.Logger) *Controller {
	return &Controller{
		service:    service,
		cookieName: cookieName,
		secure:     secure,
		logger:     log,
	}
}

// Register mounts the auth routes on the given router.
func (ac *Controller) Register(r router.Router) {
	r.POST("/signup", ac.SignUp)
	r.POST("/signin", ac.SignIn)
}

// SignUp registers a new account and sets the session cookie. Responds 201
// with an empty body.
func (ac *Controller) SignUp(c router.Context) error {
	email, password, err := ac.credentials(c)
	if err != nil {
		return controller.Error(c, ac.logger, err)
	}

	token, err := ac.service.SignUp(c.Request().Context(), email, password)
	if err != nil {
		return controller.Error(c, ac.logger, err)
	}

	ac.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, nil)
}

// SignIn checks credentials and sets the session cookie. Responds 200 with an
// empty body.
func (ac *Controller) SignIn(c router.Context) error {
	email, password, err := ac.credentials(c)
	if err != nil {
		return controller.Error(c, ac.logger, err)
	}

	token, err := ac.service.SignIn(c.Request().Context(), email, password)
	if err != nil {
		return controller.Error(c, ac.logger, err)
	}

	ac.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, nil)
}

func (ac *Controller) credentials(c router.Context) (string, string, error) {
	body := bson.M{}
	if err := c.Bind(&body); err != nil {
		return "", "", httperr.BadRequest("Please use valid email and password")
	}

	email, emailOK := body["email"].(string)
	password, passwordOK := body["password"].(string)
	if !emailOK || !passwordOK || email == "" || password == "" {
		return "", "", httperr.BadRequest("Please use valid email and password")
	}

	return email, password, nil
}

func (ac *Controller) setSessionCookie(c router.Context, token string) {
	http.SetCookie(c.Response(), &http.Cookie{
		Name:     ac.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Package session owns the bootstrap decision and the authenticated lifecycle:
// which top-level phase the app starts in, how a login turns into a persisted
// session, and how logout tears it down.
//
// Bootstrap is purely local-state-driven: a stored token is trusted without
// server validation until the first authenticated request fails. That keeps a
// cold start working offline but means a revoked token is only discovered
// lazily; the behavior is deliberate, not an oversight.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/models"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/campuskit/campusctl/internal/store"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// Phase is the mutually-exclusive top-level UI mode.
type Phase int

const (
	Loading Phase = iota
	Onboarding
	Login
	Home
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Onboarding:
		return "onboarding"
	case Login:
		return "login"
	case Home:
		return "home"
	default:
		return ""
	}
}

// AuthError reports a login the backend rejected, as opposed to a network
// failure. Reason carries the human-readable explanation for the toast.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// Controller orchestrates phase transitions. It is the only writer of the
// phase and the only component that mutates the token, which it always
// changes in the store and the API client together.
type Controller struct {
	store  *store.Store
	api    *api.Client
	logger *log.Logger

	mu    sync.Mutex
	phase Phase
	user  *models.UserProfile
}

// NewController creates a Controller in the Loading phase.
func NewController(st *store.Store, client *api.Client, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{store: st, api: client, logger: logger, phase: Loading}
}

// Bootstrap decides the initial phase from persisted state alone:
// onboarding flag absent → Onboarding; flag present with a token → Home
// (token injected into the API client); flag present without one → Login.
// Never performs network calls. Anything unexpected defaults to Login so the
// user is never stranded on a loading screen.
func (c *Controller) Bootstrap() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	phase := func() (p Phase) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Errorf("bootstrap failed unexpectedly: %v", r)
				p = Login
			}
		}()

		if flag, ok := c.store.Get(store.KeyOnboardingComplete); !ok || flag != store.OnboardingDone {
			return Onboarding
		}

		token, ok := c.store.Get(store.KeyAuthToken)
		if !ok || token == "" {
			return Login
		}

		c.api.SetToken(token)
		c.user = c.store.LoadUser()
		return Home
	}()

	c.phase = phase
	return phase
}

// CompleteOnboarding persists the onboarding flag and moves to Login.
func (c *Controller) CompleteOnboarding() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(store.KeyOnboardingComplete, store.OnboardingDone)
	c.phase = Login
	return c.phase
}

// Login authenticates against the backend. On success the token is persisted
// and injected into the API client in one step, the user profile is cached,
// the remembered email is stored or cleared per the remember flag, and the
// phase becomes Home.
//
// Returns [AuthError] when the backend rejects the credentials or the
// response lacks a token, lacks a user, or carries a non-administrative role.
// The phase is left untouched on failure.
func (c *Controller) Login(ctx context.Context, email, password string, remember bool) (*models.Session, error) {
	env, err := c.api.Authenticate(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if !env.OK() {
		return nil, &AuthError{Reason: env.ErrorMessage("login failed")}
	}

	token := gjson.GetBytes(env.Body, "token")
	if !token.Exists() {
		token = gjson.GetBytes(env.Body, "data.token")
	}
	if token.String() == "" {
		return nil, &AuthError{Reason: "login response did not include a token"}
	}

	rawUser := gjson.GetBytes(env.Body, "user")
	if !rawUser.Exists() {
		rawUser = gjson.GetBytes(env.Body, "data.user")
	}
	if !rawUser.IsObject() {
		return nil, &AuthError{Reason: "login response did not include a user"}
	}

	var user models.UserProfile
	if err := json.Unmarshal([]byte(rawUser.Raw), &user); err != nil {
		return nil, &AuthError{Reason: "login response user could not be read"}
	}

	if !user.Allowed() {
		return nil, &AuthError{Reason: "this account is not permitted to use the admin app"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Token changes atomically: client header and store together.
	c.api.SetToken(token.String())
	c.store.Set(store.KeyAuthToken, token.String())

	c.user = &user
	c.store.SaveUser(&user)

	if remember {
		c.store.Set(store.KeyRememberedEmail, email)
	} else {
		c.store.Remove(store.KeyRememberedEmail)
	}

	c.phase = Home
	c.logger.Infof("logged in as %s (role %d)", user.Email, user.Role)

	return &models.Session{Token: token.String(), User: &user}, nil
}

// Logout clears the in-memory user, the client's auth header and the stored
// token, then moves to Login. Calling it twice is a no-op the second time.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.api.ClearToken()
	c.store.Remove(store.KeyAuthToken)
	c.phase = Login
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// User returns the authenticated user, nil when logged out.
func (c *Controller) User() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// RememberedEmail returns the persisted login email, if any, for prefilling
// the login form.
func (c *Controller) RememberedEmail() string {
	email, _ := c.store.Get(store.KeyRememberedEmail)
	return email
}

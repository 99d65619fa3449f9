package session

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/campuskit/campusctl/internal/store"
)

type fixture struct {
	store      *store.Store
	client     *api.Client
	controller *Controller
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := shared.NewLogger(&bytes.Buffer{})
	st := store.New(db, logger)

	baseURL := "http://127.0.0.1:1"
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}
	client := api.NewClient(baseURL, nil, 100, logger)

	return &fixture{
		store:      st,
		client:     client,
		controller: NewController(st, client, logger),
	}
}

func loginOK(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"token": "T", "user": {"id": 1, "name": "Admin", "email": "a@b.com", "role": 1}}`))
}

func TestBootstrap(t *testing.T) {
	t.Run("FreshInstall", func(t *testing.T) {
		f := newFixture(t, nil)
		if phase := f.controller.Bootstrap(); phase != Onboarding {
			t.Errorf("expected Onboarding, got %v", phase)
		}
	})

	t.Run("OnboardedWithoutToken", func(t *testing.T) {
		f := newFixture(t, nil)
		f.store.Set(store.KeyOnboardingComplete, store.OnboardingDone)

		if phase := f.controller.Bootstrap(); phase != Login {
			t.Errorf("expected Login, got %v", phase)
		}
	})

	t.Run("OnboardedWithToken", func(t *testing.T) {
		f := newFixture(t, nil)
		f.store.Set(store.KeyOnboardingComplete, store.OnboardingDone)
		f.store.Set(store.KeyAuthToken, "T99")

		if phase := f.controller.Bootstrap(); phase != Home {
			t.Errorf("expected Home, got %v", phase)
		}
		if f.client.Token() != "T99" {
			t.Errorf("bootstrap should inject the stored token, got %q", f.client.Token())
		}
	})

	t.Run("TokenWithoutOnboarding", func(t *testing.T) {
		// The onboarding flag gates everything, even with a token present.
		f := newFixture(t, nil)
		f.store.Set(store.KeyAuthToken, "T99")

		if phase := f.controller.Bootstrap(); phase != Onboarding {
			t.Errorf("expected Onboarding, got %v", phase)
		}
	})

	t.Run("OnboardingFlowEndToEnd", func(t *testing.T) {
		f := newFixture(t, nil)

		if phase := f.controller.Bootstrap(); phase != Onboarding {
			t.Fatalf("fresh install should onboard, got %v", phase)
		}
		if phase := f.controller.CompleteOnboarding(); phase != Login {
			t.Fatalf("completing onboarding should move to Login, got %v", phase)
		}
		if phase := f.controller.Bootstrap(); phase != Login {
			t.Errorf("next boot without a token should land on Login, got %v", phase)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, loginOK)

		sess, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if sess.Token != "T" || sess.User == nil || sess.User.ID != 1 {
			t.Errorf("unexpected session: %+v", sess)
		}

		if stored, _ := f.store.Get(store.KeyAuthToken); stored != "T" {
			t.Errorf("token should be persisted, got %q", stored)
		}
		if f.client.Token() != "T" {
			t.Errorf("client should carry the token, got %q", f.client.Token())
		}
		if f.controller.Phase() != Home {
			t.Errorf("phase should be Home, got %v", f.controller.Phase())
		}
		if u := f.store.LoadUser(); u == nil || u.Email != "a@b.com" {
			t.Errorf("user profile should be cached, got %+v", u)
		}
	})

	t.Run("NestedEnvelope", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"token": "T2", "user": {"id": 4, "role": 2}}}`))
		})

		sess, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if sess.Token != "T2" || sess.User.Role != 2 {
			t.Errorf("unexpected session: %+v", sess)
		}
	})

	t.Run("DisallowedRole", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token": "T", "user": {"id": 1, "role": 9}}`))
		})
		f.controller.phase = Login

		_, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if f.controller.Phase() != Login {
			t.Errorf("phase should remain Login, got %v", f.controller.Phase())
		}
		if _, ok := f.store.Get(store.KeyAuthToken); ok {
			t.Error("no token should be persisted for a rejected role")
		}
		if f.client.Token() != "" {
			t.Error("client should not carry a token for a rejected role")
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user": {"id": 1, "role": 1}}`))
		})

		_, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
	})

	t.Run("MissingUser", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token": "T"}`))
		})

		_, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
	})

	t.Run("RejectionCarriesServerMessage", func(t *testing.T) {
		f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message": "Invalid email or password"}`))
		})

		_, err := f.controller.Login(ctx, "a@b.com", "wrong", false)
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected AuthError, got %v", err)
		}
		if authErr.Reason != "Invalid email or password" {
			t.Errorf("expected server message, got %q", authErr.Reason)
		}
	})

	t.Run("NetworkFailure", func(t *testing.T) {
		f := newFixture(t, nil)

		_, err := f.controller.Login(ctx, "a@b.com", "secret1", false)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected wrapped ErrAuthFailed, got %v", err)
		}
	})

	t.Run("RememberMe", func(t *testing.T) {
		f := newFixture(t, loginOK)

		if _, err := f.controller.Login(ctx, "a@b.com", "secret1", true); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if f.controller.RememberedEmail() != "a@b.com" {
			t.Errorf("email should be remembered, got %q", f.controller.RememberedEmail())
		}

		// Logging in without remember clears the previous value.
		if _, err := f.controller.Login(ctx, "a@b.com", "secret1", false); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if f.controller.RememberedEmail() != "" {
			t.Errorf("email should be cleared, got %q", f.controller.RememberedEmail())
		}
	})
}

func TestLogout(t *testing.T) {
	f := newFixture(t, loginOK)

	if _, err := f.controller.Login(context.Background(), "a@b.com", "secret1", false); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	f.controller.Logout()

	if f.controller.Phase() != Login {
		t.Errorf("phase should be Login, got %v", f.controller.Phase())
	}
	if f.controller.User() != nil {
		t.Error("in-memory user should be cleared")
	}
	if f.client.Token() != "" {
		t.Error("client token should be cleared")
	}
	if _, ok := f.store.Get(store.KeyAuthToken); ok {
		t.Error("stored token should be cleared")
	}

	// Second logout is a no-op.
	f.controller.Logout()
	if f.controller.Phase() != Login {
		t.Error("repeated logout should stay on Login")
	}
}

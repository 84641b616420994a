package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

const testCookieName = "telegram_id"

type fakeUserLoader struct {
	users map[string]models.User
	err   error
}

func (f *fakeUserLoader) FindByID(_ context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func sessionHandler(users *fakeUserLoader) (http.Handler, *struct{ userID, role string }) {
	seen := &struct{ userID, role string }{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.userID = UserIDFromContext(r.Context())
		seen.role = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := Session(SessionParams{CookieName: testCookieName, Users: users, Logger: testLogger()})
	return mw(inner), seen
}

func TestSessionAttachesUser(t *testing.T) {
	users := &fakeUserLoader{users: map[string]models.User{
		"777000": {ID: "777000", Role: enums.UserRoleStore},
	}}
	handler, seen := sessionHandler(users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "777000"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.userID != "777000" {
		t.Fatalf("expected user id attached, got %q", seen.userID)
	}
	if seen.role != enums.UserRoleStore.String() {
		t.Fatalf("expected store role attached, got %q", seen.role)
	}
}

func TestSessionWithoutCookieIsAnonymous(t *testing.T) {
	handler, seen := sessionHandler(&fakeUserLoader{users: map[string]models.User{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.userID != "" || seen.role != "" {
		t.Fatalf("expected anonymous context, got user=%q role=%q", seen.userID, seen.role)
	}
}

func TestSessionStaleCookieIsAnonymous(t *testing.T) {
	handler, seen := sessionHandler(&fakeUserLoader{users: map[string]models.User{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "gone"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.userID != "" {
		t.Fatalf("expected anonymous context, got user=%q", seen.userID)
	}
}

func TestSessionLoaderFailureRejectsRequest(t *testing.T) {
	users := &fakeUserLoader{err: pkgerrors.New(pkgerrors.CodeDependency, "store unreachable")}
	handler, _ := sessionHandler(users)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "777000"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequireAuth(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(testLogger())(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), "777000"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(enums.UserRoleStore, testLogger())(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), enums.UserRoleCustomer.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), enums.UserRoleStore.String()))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for store owner, got %d", rec.Code)
	}
}

package users

import (
	"context"
	"testing"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

type fakeRepo struct {
	users map[string]models.User
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, patch func(models.User) models.User) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	updated := patch(user)
	f.users[id] = updated
	return updated, nil
}

func newTestService(t *testing.T, repo *fakeRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestGetOmitsPasswordHash(t *testing.T) {
	repo := &fakeRepo{users: map[string]models.User{
		"u1": {
			ID:           "u1",
			Email:        "aziza@example.com",
			PasswordHash: "$argon2id$...",
			Name:         "Aziza",
			Role:         enums.UserRoleCustomer,
		},
	}}
	svc := newTestService(t, repo)

	profile, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if profile.Email != "aziza@example.com" || profile.Name != "Aziza" || profile.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := newTestService(t, &fakeRepo{users: map[string]models.User{}})

	_, err := svc.Get(context.Background(), "nobody")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTrimsAndApplies(t *testing.T) {
	repo := &fakeRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "Aziza", Phone: "+998900000000", Role: enums.UserRoleCustomer},
	}}
	svc := newTestService(t, repo)

	name := "  Aziza K  "
	phone := " +998901234567 "
	profile, err := svc.Update(context.Background(), "u1", UpdateProfileInput{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if profile.Name != "Aziza K" || profile.Phone != "+998901234567" {
		t.Fatalf("expected trimmed values, got %+v", profile)
	}
}

func TestUpdateRejectsBlankName(t *testing.T) {
	repo := &fakeRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "Aziza"},
	}}
	svc := newTestService(t, repo)

	blank := "   "
	_, err := svc.Update(context.Background(), "u1", UpdateProfileInput{Name: &blank})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.users["u1"].Name != "Aziza" {
		t.Fatal("name changed despite validation failure")
	}
}

func TestUpdateLeavesRoleAlone(t *testing.T) {
	repo := &fakeRepo{users: map[string]models.User{
		"u1": {ID: "u1", Name: "Aziza", Role: enums.UserRoleStore},
	}}
	svc := newTestService(t, repo)

	name := "Renamed"
	profile, err := svc.Update(context.Background(), "u1", UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if profile.Role != enums.UserRoleStore {
		t.Fatalf("role changed: %s", profile.Role)
	}
}

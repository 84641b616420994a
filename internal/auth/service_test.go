package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/security"
)

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "users record not found")
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (models.User, bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user models.User) error {
	if _, exists := r.users[user.ID]; exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "users record already exists")
	}
	r.users[user.ID] = user
	return nil
}

type fakeStoreCreator struct {
	created []models.Store
	err     error
}

func (c *fakeStoreCreator) CreateForUser(_ context.Context, userID string, input stores.CreateStoreInput) (models.Store, error) {
	if c.err != nil {
		return models.Store{}, c.err
	}
	store := models.Store{ID: fmt.Sprintf("store-%d", len(c.created)+1), UserID: userID, Name: input.Name}
	c.created = append(c.created, store)
	return store, nil
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, users *fakeUserRepo, creator *fakeStoreCreator) Service {
	t.Helper()
	counter := 0
	svc, err := NewService(ServiceParams{
		Users:          users,
		Stores:         creator,
		Verifier:       NewTelegramVerifier(testBotToken, 120*time.Second, fixedNow),
		PasswordConfig: testPasswordConfig(),
		NewID: func() string {
			counter++
			return fmt.Sprintf("id-%d", counter)
		},
		Now: fixedNow,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestTelegramLoginCreatesUserKeyedByTelegramID(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(t, users, &fakeStoreCreator{})
	v := NewTelegramVerifier(testBotToken, 120*time.Second, fixedNow)

	session, err := svc.TelegramLogin(context.Background(), signedAssertion(v, nil))
	if err != nil {
		t.Fatalf("telegram login: %v", err)
	}
	if session.UserID != "777000" {
		t.Fatalf("expected user id 777000, got %s", session.UserID)
	}
	stored, ok := users.users["777000"]
	if !ok {
		t.Fatal("expected user to be created")
	}
	if stored.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", stored.Role)
	}
	if stored.Name != "Aziza" {
		t.Fatalf("expected name Aziza, got %q", stored.Name)
	}
}

func TestTelegramLoginKeepsStoredRoleOnReauth(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(t, users, &fakeStoreCreator{})
	v := NewTelegramVerifier(testBotToken, 120*time.Second, fixedNow)

	first := signedAssertion(v, nil)
	first.Role = enums.UserRoleStore.String()
	if _, err := svc.TelegramLogin(context.Background(), first); err != nil {
		t.Fatalf("first login: %v", err)
	}

	// Same Telegram id comes back claiming customer; the stored role wins.
	second := signedAssertion(v, nil)
	second.Role = enums.UserRoleCustomer.String()
	session, err := svc.TelegramLogin(context.Background(), second)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if session.Role != enums.UserRoleStore {
		t.Fatalf("expected stored store role, got %s", session.Role)
	}
}

func TestTelegramLoginRejectsBadSignature(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), &fakeStoreCreator{})
	v := NewTelegramVerifier(testBotToken, 120*time.Second, fixedNow)
	assertion := signedAssertion(v, nil)
	assertion.Hash = "deadbeef"
	_, err := svc.TelegramLogin(context.Background(), assertion)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterCustomerThenLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(t, users, &fakeStoreCreator{})

	session, err := svc.RegisterCustomer(context.Background(), RegisterCustomerInput{
		Email:    "aziza@example.com",
		Password: "correct horse battery",
		Name:     "Aziza",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", session.Role)
	}

	again, err := svc.Login(context.Background(), LoginInput{
		Email:    "aziza@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if again.UserID != session.UserID {
		t.Fatalf("expected same user id, got %s and %s", again.UserID, session.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(t, users, &fakeStoreCreator{})

	if _, err := svc.RegisterCustomer(context.Background(), RegisterCustomerInput{
		Email:    "aziza@example.com",
		Password: "correct horse battery",
		Name:     "Aziza",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "aziza@example.com", Password: "nope"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), &fakeStoreCreator{})
	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterCustomerRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t, newFakeUserRepo(), &fakeStoreCreator{})
	input := RegisterCustomerInput{Email: "aziza@example.com", Password: "correct horse battery", Name: "Aziza"}

	if _, err := svc.RegisterCustomer(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.RegisterCustomer(context.Background(), input)
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterStoreCreatesStoreProfile(t *testing.T) {
	users := newFakeUserRepo()
	creator := &fakeStoreCreator{}
	svc := newTestService(t, users, creator)

	session, err := svc.RegisterStore(context.Background(), RegisterStoreInput{
		Email:     "bakery@example.com",
		Password:  "correct horse battery",
		Name:      "Bobur",
		StoreName: "Samarkand Bakery",
		Address:   "Tashkent, Amir Temur 1",
	})
	if err != nil {
		t.Fatalf("register store: %v", err)
	}
	if session.Role != enums.UserRoleStore {
		t.Fatalf("expected store role, got %s", session.Role)
	}
	if len(creator.created) != 1 {
		t.Fatalf("expected one store created, got %d", len(creator.created))
	}
	if creator.created[0].UserID != session.UserID {
		t.Fatalf("store owner mismatch: %s vs %s", creator.created[0].UserID, session.UserID)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("secret passphrase", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := security.VerifyPassword("secret passphrase", hash)
	if err != nil || !ok {
		t.Fatalf("expected verify to succeed, ok=%v err=%v", ok, err)
	}
	ok, err = security.VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

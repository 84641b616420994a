package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	TelegramLogin(ctx context.Context, assertion TelegramAssertion) (*SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (*SessionDTO, error)
	RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*SessionDTO, error)
	RegisterStore(ctx context.Context, input RegisterStoreInput) (*SessionDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, bool, error)
	Create(ctx context.Context, user models.User) error
}

type storeCreator interface {
	CreateForUser(ctx context.Context, userID string, input stores.CreateStoreInput) (models.Store, error)
}

type idGenerator func() string

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Users          userRepository
	Stores         storeCreator
	Verifier       *TelegramVerifier
	PasswordConfig config.PasswordConfig
	NewID          idGenerator
	Now            func() time.Time
}

type service struct {
	users    userRepository
	stores   storeCreator
	verifier *TelegramVerifier
	pwCfg    config.PasswordConfig
	newID    idGenerator
	now      func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("telegram verifier is required")
	}
	if params.NewID == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.Users,
		stores:   params.Stores,
		verifier: params.Verifier,
		pwCfg:    params.PasswordConfig,
		newID:    params.NewID,
		now:      now,
	}, nil
}

// TelegramLogin validates the widget assertion and upserts the user keyed
// by the Telegram numeric id. Re-authentication of an existing id never
// changes its stored role, whatever role the new assertion claims.
func (s *service) TelegramLogin(ctx context.Context, assertion TelegramAssertion) (*SessionDTO, error) {
	role, err := s.verifier.Verify(assertion)
	if err != nil {
		return nil, err
	}

	id := strconv.FormatInt(assertion.ID, 10)
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		user = models.User{
			ID:        id,
			Email:     telegramEmail(assertion),
			Name:      telegramName(assertion),
			Role:      role,
			CreatedAt: s.now().UTC(),
			PhotoURL:  assertion.PhotoURL,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	return sessionFromUser(user), nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*SessionDTO, error) {
	user, found, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if !found || user.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return sessionFromUser(user), nil
}

func (s *service) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*SessionDTO, error) {
	user, err := s.createUser(ctx, input.Email, input.Password, input.Name, input.Phone, enums.UserRoleCustomer)
	if err != nil {
		return nil, err
	}
	return sessionFromUser(user), nil
}

func (s *service) RegisterStore(ctx context.Context, input RegisterStoreInput) (*SessionDTO, error) {
	user, err := s.createUser(ctx, input.Email, input.Password, input.Name, input.Phone, enums.UserRoleStore)
	if err != nil {
		return nil, err
	}
	if _, err := s.stores.CreateForUser(ctx, user.ID, stores.CreateStoreInput{
		Name:        input.StoreName,
		Description: input.Description,
		Address:     input.Address,
		Phone:       input.StorePhone,
		Lat:         input.Lat,
		Lng:         input.Lng,
	}); err != nil {
		return nil, err
	}
	return sessionFromUser(user), nil
}

func (s *service) createUser(ctx context.Context, email, password, name, phone string, role enums.UserRole) (models.User, error) {
	email = strings.TrimSpace(email)
	if _, found, err := s.users.FindByEmail(ctx, email); err != nil {
		return models.User{}, err
	} else if found {
		return models.User{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return models.User{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	user := models.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func sessionFromUser(user models.User) *SessionDTO {
	return &SessionDTO{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}
}

func telegramEmail(assertion TelegramAssertion) string {
	if assertion.Username != "" {
		return assertion.Username + "@telegram"
	}
	return fmt.Sprintf("tg%d@telegram", assertion.ID)
}

func telegramName(assertion TelegramAssertion) string {
	name := assertion.FirstName
	if assertion.LastName != "" {
		name += " " + assertion.LastName
	}
	return name
}

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
)

// TelegramAssertion is the login-widget payload as posted by the browser.
// https://core.telegram.org/widgets/login#checking-authorization
type TelegramAssertion struct {
	ID        int64  `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date" validate:"required"`
	Hash      string `json:"hash" validate:"required"`
	// Role is chosen by the application's login page, never by Telegram,
	// so it is excluded from the signed payload.
	Role string `json:"role"`
}

// TelegramVerifier checks widget assertions against the bot token.
type TelegramVerifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTelegramVerifier derives the shared secret from the bot token.
func NewTelegramVerifier(botToken string, maxAge time.Duration, now func() time.Time) *TelegramVerifier {
	if now == nil {
		now = time.Now
	}
	if maxAge <= 0 {
		maxAge = 120 * time.Second
	}
	secret := sha256.Sum256([]byte(botToken))
	return &TelegramVerifier{
		secret: secret[:],
		maxAge: maxAge,
		now:    now,
	}
}

// Verify validates the signature, freshness and role of the assertion.
func (v *TelegramVerifier) Verify(assertion TelegramAssertion) (enums.UserRole, error) {
	expected := v.Sign(assertion)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(assertion.Hash))) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid telegram signature")
	}

	age := v.now().Unix() - assertion.AuthDate
	if age > int64(v.maxAge.Seconds()) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "telegram login expired")
	}

	role := assertion.Role
	if role == "" {
		role = enums.UserRoleCustomer.String()
	}
	parsed, err := enums.ParseUserRole(role)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user role")
	}
	return parsed, nil
}

// Sign computes the expected signature for the assertion's data-check
// string: non-empty fields minus hash and role, rendered as key=value
// lines sorted by key and joined with newlines, HMAC-SHA256 keyed with
// SHA-256 of the bot token.
func (v *TelegramVerifier) Sign(assertion TelegramAssertion) string {
	pairs := map[string]string{
		"id":        strconv.FormatInt(assertion.ID, 10),
		"auth_date": strconv.FormatInt(assertion.AuthDate, 10),
	}
	if assertion.FirstName != "" {
		pairs["first_name"] = assertion.FirstName
	}
	if assertion.LastName != "" {
		pairs["last_name"] = assertion.LastName
	}
	if assertion.Username != "" {
		pairs["username"] = assertion.Username
	}
	if assertion.PhotoURL != "" {
		pairs["photo_url"] = assertion.PhotoURL
	}

	keys := make([]string, 0, len(pairs))
	for key := range pairs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", key, pairs[key]))
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

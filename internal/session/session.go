// Package session implements the desktop login gate. The signed-in user is
// kept under a single key in the same kv store as the records.
package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"warburtonsos/internal/kv"
	"warburtonsos/pkg/domain"
)

// ErrInvalidCredentials is returned when the username or password is wrong.
var ErrInvalidCredentials = errors.New("Invalid credentials. Please try again.") //nolint:staticcheck // shown verbatim on the login screen

// Credentials is the single accepted username/password pair.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DefaultCredentials returns the demo pair admin/admin.
func DefaultCredentials() Credentials {
	return Credentials{Username: "admin", Password: "admin"}
}

// User is the persisted session record.
type User struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Gate checks credentials and tracks the signed-in user.
type Gate struct {
	store  kv.Store
	creds  Credentials
	logger *zap.Logger
}

// NewGate builds a gate over store. A nil logger discards log output.
func NewGate(store kv.Store, creds Credentials, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{store: store, creds: creds, logger: logger}
}

// Login accepts exactly the configured pair and persists the session. There
// is no lockout.
func (g *Gate) Login(ctx context.Context, username, password string) (User, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.creds.Password)) == 1
	if !userOK || !passOK {
		g.logger.Info("login rejected", zap.String("username", username))
		return User{}, ErrInvalidCredentials
	}
	user := User{Username: username, Role: domain.RoleAdmin}
	payload, err := json.Marshal(user)
	if err != nil {
		return User{}, err
	}
	if err := g.store.Put(ctx, domain.KeySession, payload); err != nil {
		return User{}, fmt.Errorf("persist session: %w", err)
	}
	g.logger.Info("login", zap.String("username", username))
	return user, nil
}

// Current returns the signed-in user. Any stored value counts as signed in;
// an unreadable value yields an empty User.
func (g *Gate) Current(ctx context.Context) (User, bool, error) {
	payload, ok, err := g.store.Get(ctx, domain.KeySession)
	if err != nil {
		return User{}, false, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return User{}, false, nil
	}
	var user User
	if err := json.Unmarshal(payload, &user); err != nil {
		g.logger.Warn("unreadable session value", zap.Error(err))
		return User{}, true, nil
	}
	return user, true, nil
}

// Logout forgets the signed-in user.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.Delete(ctx, domain.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

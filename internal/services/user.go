package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/postboard/apiserver/internal/auth"
	"github.com/postboard/apiserver/internal/events"
	"github.com/postboard/apiserver/types"
)

const (
	minUsernameLen = 4
	maxUsernameLen = 255
	minPasswordLen = 6
	maxPasswordLen = 32
)

// ErrValidation marks rejected input (bad lengths).
var ErrValidation = errors.New("validation failed")

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates account use-cases: registration, credential
// verification, and the token_version bumps that revoke outstanding tokens.
type UserService struct {
	repo   UserRepository
	hasher *auth.Hasher
	codec  *auth.TokenCodec
	events *events.Publisher
}

func NewUserService(repo UserRepository, hasher *auth.Hasher, codec *auth.TokenCodec, publisher *events.Publisher) *UserService {
	if publisher == nil {
		publisher = events.NewPublisher(nil)
	}
	return &UserService{repo: repo, hasher: hasher, codec: codec, events: publisher}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create hashes the password and inserts the account. Duplicate usernames
// surface as store.ErrConflict from the unique constraint; there is no
// separate existence check to race against.
func (s *UserService) Create(ctx context.Context, username, password string, superuser bool) (types.User, error) {
	if err := validateUsername(username); err != nil {
		return types.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return types.User{}, err
	}

	hashed, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		PasswordHash: hashed,
		Superuser:    superuser,
		IsActive:     true,
	})
	if err != nil {
		return types.User{}, err
	}

	s.publish(ctx, events.Event{Name: events.UserRegistered, Subject: user.Username, ResourceID: user.ID})
	return user, nil
}

// Authenticate checks a username/password pair. Unknown username, wrong
// password, and deactivated account are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, auth.ErrInvalidCredentials
	}
	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return types.User{}, auth.ErrInvalidCredentials
	}
	if !user.IsActive {
		return types.User{}, auth.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and issues a token stamped with the account's
// current token_version.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.codec.Issue(user.Username, user.TokenVersion)
}

// Logout bumps the token_version, invalidating every token issued so far.
func (s *UserService) Logout(ctx context.Context, user types.User) error {
	user.TokenVersion++
	if _, err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Name: events.TokenRevoked, Subject: user.Username, ResourceID: user.ID})
	return nil
}

// Deactivate soft-deletes the account and revokes its tokens.
func (s *UserService) Deactivate(ctx context.Context, user types.User) (types.User, error) {
	user.IsActive = false
	user.TokenVersion++
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return types.User{}, err
	}
	s.publish(ctx, events.Event{Name: events.UserDeactivated, Subject: updated.Username, ResourceID: updated.ID})
	return updated, nil
}

// DeactivateByUsername is the admin-forced variant of Deactivate.
func (s *UserService) DeactivateByUsername(ctx context.Context, username string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}
	return s.Deactivate(ctx, user)
}

// UpdateProfile changes the account's username and password. The password
// change is a revocation event: token_version is bumped and the caller must
// log in again.
func (s *UserService) UpdateProfile(ctx context.Context, user types.User, username, password string) (types.User, error) {
	if err := validateUsername(username); err != nil {
		return types.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return types.User{}, err
	}

	hashed, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return types.User{}, err
	}

	user.Username = username
	user.PasswordHash = hashed
	user.TokenVersion++
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return types.User{}, err
	}
	s.publish(ctx, events.Event{Name: events.TokenRevoked, Subject: updated.Username, ResourceID: updated.ID})
	return updated, nil
}

// SetSuperuser flips the admin flag on the named account.
func (s *UserService) SetSuperuser(ctx context.Context, username string, superuser bool) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}
	user.Superuser = superuser
	return s.repo.Update(ctx, user)
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("events: publish %s: %v", event.Name, err)
	}
}

func validateUsername(username string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, minUsernameLen, maxUsernameLen)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, minPasswordLen, maxPasswordLen)
	}
	return nil
}

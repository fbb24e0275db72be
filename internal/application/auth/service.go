// Package auth implements registration and login. Passwords are stored as
// bcrypt hashes; a successful login issues a bearer token carrying the user
// ID as subject.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domuser "github.com/corpz/marketplace/internal/domain/user"
	"github.com/corpz/marketplace/internal/observability"
)

const minPasswordLen = 8

var ErrWeakPassword = errors.New("auth: password must be at least 8 characters")

type IDGenerator interface {
	NewID() string
}

type Service struct {
	users  domuser.Repository
	tokens *TokenIssuer
	idGen  IDGenerator
	log    observability.Logger
}

func NewService(users domuser.Repository, tokens *TokenIssuer, idGen IDGenerator, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Service{
		users:  users,
		tokens: tokens,
		idGen:  idGen,
		log:    tel.Logger().With(observability.F("service", "auth")),
	}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*domuser.User, error) {
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	entity, err := domuser.New(s.idGen.NewID(), email, name, string(hash))
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, entity); err != nil {
		return nil, err
	}
	s.log.Info("user_registered", observability.F("user_id", entity.ID))
	return entity, nil
}

// Login verifies the credentials and issues a token. Lookup and hash
// failures both come back as ErrInvalidCredentials so the response does not
// reveal which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*domuser.User, string, error) {
	entity, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domuser.ErrNotFound) {
			return nil, "", domuser.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(entity.PasswordHash), []byte(password)) != nil {
		return nil, "", domuser.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(entity.ID)
	if err != nil {
		return nil, "", err
	}
	return entity, token, nil
}

// VerifyToken resolves a bearer token to its user ID.
func (s *Service) VerifyToken(raw string) (string, error) {
	return s.tokens.Verify(raw)
}

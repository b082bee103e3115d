package service

import (
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/beka-birhanu/maze-runner/service/i"
	"github.com/google/uuid"
)

const tokenLifetime = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Auth registers players and issues their bearer tokens.
type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
	logger    i.Logger
}

var _ i.Authenticator = &Auth{}

// NewAuthService creates an Auth service backed by the given repository and tokenizer.
func NewAuthService(ur i.UserRepo, t i.Tokenizer, l i.Logger) (*Auth, error) {
	if ur == nil || t == nil || l == nil {
		return nil, errors.New("auth service needs a user repo, a tokenizer and a logger")
	}
	return &Auth{
		userRepo:  ur,
		tokenizer: t,
		logger:    l,
	}, nil
}

// Register creates a new user after validating the username and password.
func (a *Auth) Register(username, password string) error {
	_, err := a.userRepo.ByUsername(username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, dmn.ErrUserNotFound):
		a.logger.Error(fmt.Sprintf("looking up username %s: %s", username, err))
		return err
	}

	user, err := dmn.NewUser(dmn.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	})
	if err != nil {
		return err
	}

	if err := a.userRepo.Save(user); err != nil {
		if errors.Is(err, dmn.ErrUsernameConflict) {
			return ErrUsernameTaken
		}
		a.logger.Error(fmt.Sprintf("saving user %s: %s", username, err))
		return err
	}

	a.logger.Info(fmt.Sprintf("registered user: %s", user.ID))
	return nil
}

// SignIn checks the credentials and returns the user with a fresh token.
func (a *Auth) SignIn(username, password string) (*dmn.User, string, error) {
	user, err := a.userRepo.ByUsername(username)
	if errors.Is(err, dmn.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error(fmt.Sprintf("looking up username %s: %s", username, err))
		return nil, "", err
	}

	if !user.VerifyPassword(password) {
		a.logger.Warning(fmt.Sprintf("wrong password for user: %s", user.ID))
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"userID":   user.ID.String(),
		"username": user.Username,
	}, tokenLifetime)
	if err != nil {
		a.logger.Error(fmt.Sprintf("generating token for user %s: %s", user.ID, err))
		return nil, "", err
	}

	return user, token, nil
}

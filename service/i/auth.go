package i

import (
	dmn "github.com/beka-birhanu/maze-runner/domain"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(string, string) error
	SignIn(string, string) (*dmn.User, string, error)
}

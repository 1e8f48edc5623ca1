package domain

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user inactive")
)

// Article errors
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrContentNotFound = errors.New("article content not found")
	ErrStorage         = errors.New("storage failure")
)

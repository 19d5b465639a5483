package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid credentials")

	ErrSeedForbidden = errors.New("seeding is not available in production")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)

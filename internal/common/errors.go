package common

import "errors"

var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Input errors raised before anything reaches the network.
	ErrEmptyCredentials = errors.New("email and password are required")
	ErrEmptyName        = errors.New("first and last name are required")
)

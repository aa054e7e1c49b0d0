package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrProductUnavailable = errors.New("product is out of stock")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

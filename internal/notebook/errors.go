package notebook

import "errors"

var (
	ErrMalformed       = errors.New("notebook: malformed payload")
	ErrEmptyName       = errors.New("notebook: item name is empty")
	ErrUnknownLocation = errors.New("notebook: unknown location")
	ErrItemNotFound    = errors.New("notebook: item not found")
)

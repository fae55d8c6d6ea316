package doctor

import "errors"

var (
	ErrNotFound            = errors.New("doctor not found")
	ErrNotOwner            = errors.New("only the owning doctor may update availability")
	ErrInvalidAvailability = errors.New("invalid availability")
)

package loopstack

import (
	"errors"
)

var (
	// ErrNotRunning is returned by operations that require the processing
	// context, before it is ready, or after the stack is closed.
	ErrNotRunning = errors.New(`loopstack: not running`)

	// ErrFamilyDisabled is returned when configuring an address of an IP
	// version that the capability set disables.
	ErrFamilyDisabled = errors.New(`loopstack: address family disabled`)

	// ErrAddressLimit is returned when the interface already has the maximum
	// number of IPv6 addresses.
	ErrAddressLimit = errors.New(`loopstack: address limit reached`)

	// ErrAddressExists is returned when adding an address twice.
	ErrAddressExists = errors.New(`loopstack: address exists`)

	// ErrAddressNotFound is returned when removing an unknown address.
	ErrAddressNotFound = errors.New(`loopstack: address not found`)

	// ErrInvalidAddress is returned for the zero netip.Addr.
	ErrInvalidAddress = errors.New(`loopstack: invalid address`)
)

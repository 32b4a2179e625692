// Package setup validates account credentials and vehicle selection for the
// configuration wizard. It is the only layer that classifies failures into
// user-facing error categories.
package setup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wad350/gwm-home-assistant/api"
	"github.com/wad350/gwm-home-assistant/vehicle"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

var (
	// ErrCannotConnect indicates the gateway could not be reached
	ErrCannotConnect = errors.New("cannot_connect")

	// ErrInvalidAuth indicates rejected or malformed credentials
	ErrInvalidAuth = errors.New("invalid_auth")

	// ErrInvalidVIN indicates a vin not bound to the account
	ErrInvalidVIN = errors.New("invalid_vin")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Client is the api surface exercised during validation
type Client interface {
	Login(email, password string) error
	Vehicles() ([]gwm.Vehicle, error)
	Status(vin string) (gwm.VehicleStatus, error)
}

// Validate checks the credentials against the gateway and returns the
// account's vehicle list
func Validate(client Client, email, password string) ([]gwm.Vehicle, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidAuth)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: empty password", ErrInvalidAuth)
	}

	if err := client.Login(email, password); err != nil {
		if errors.Is(err, api.ErrAuthFail) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAuth, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrCannotConnect, err)
	}

	vehicles, err := client.Vehicles()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCannotConnect, err)
	}

	if len(vehicles) == 0 {
		return nil, fmt.Errorf("%w: no vehicles bound to account", ErrCannotConnect)
	}

	return vehicles, nil
}

// ValidateVIN checks the chosen vin against the account's vehicles and
// verifies that its status can be fetched
func ValidateVIN(client Client, vehicles []gwm.Vehicle, vin string) (gwm.Vehicle, error) {
	res, err := vehicle.Ensure(vin, vehicles)
	if err != nil {
		return gwm.Vehicle{}, fmt.Errorf("%w: %s", ErrInvalidVIN, err)
	}

	if _, err := client.Status(res.VIN); err != nil {
		return gwm.Vehicle{}, fmt.Errorf("%w: %s", ErrCannotConnect, err)
	}

	return res, nil
}

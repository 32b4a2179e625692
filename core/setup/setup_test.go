package setup

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wad350/gwm-home-assistant/api"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

type clientStub struct {
	loginErr    error
	vehicles    []gwm.Vehicle
	vehiclesErr error
	statusErr   error
}

func (c *clientStub) Login(email, password string) error {
	return c.loginErr
}

func (c *clientStub) Vehicles() ([]gwm.Vehicle, error) {
	return c.vehicles, c.vehiclesErr
}

func (c *clientStub) Status(vin string) (gwm.VehicleStatus, error) {
	return gwm.VehicleStatus{}, c.statusErr
}

func TestValidate(t *testing.T) {
	client := &clientStub{
		vehicles: []gwm.Vehicle{{VIN: "LGW123", Type: "Jolion"}},
	}

	vehicles, err := Validate(client, "user@example.org", "secret")
	require.NoError(t, err)
	assert.Len(t, vehicles, 1)
}

func TestValidateMalformedInput(t *testing.T) {
	client := &clientStub{}

	_, err := Validate(client, "not-an-email", "secret")
	assert.True(t, errors.Is(err, ErrInvalidAuth))

	_, err = Validate(client, "user@example.org", "  ")
	assert.True(t, errors.Is(err, ErrInvalidAuth))
}

func TestValidateErrorMapping(t *testing.T) {
	// rejected credentials
	client := &clientStub{loginErr: fmt.Errorf("%w: wrong password", api.ErrAuthFail)}
	_, err := Validate(client, "user@example.org", "secret")
	assert.True(t, errors.Is(err, ErrInvalidAuth))

	// unreachable gateway
	client = &clientStub{loginErr: errors.New("connection refused")}
	_, err = Validate(client, "user@example.org", "secret")
	assert.True(t, errors.Is(err, ErrCannotConnect))

	// empty account
	client = &clientStub{}
	_, err = Validate(client, "user@example.org", "secret")
	assert.True(t, errors.Is(err, ErrCannotConnect))
}

func TestValidateVIN(t *testing.T) {
	vehicles := []gwm.Vehicle{
		{VIN: "LGW123", Type: "Jolion"},
		{VIN: "LGW456", Type: "Dargo"},
	}

	client := &clientStub{vehicles: vehicles}

	vehicle, err := ValidateVIN(client, vehicles, "lgw456")
	require.NoError(t, err)
	assert.Equal(t, "LGW456", vehicle.VIN)

	_, err = ValidateVIN(client, vehicles, "LGW999")
	assert.True(t, errors.Is(err, ErrInvalidVIN))

	client.statusErr = errors.New("gateway timeout")
	_, err = ValidateVIN(client, vehicles, "LGW123")
	assert.True(t, errors.Is(err, ErrCannotConnect))
}

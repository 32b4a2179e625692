package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

type updaterStub struct {
	loggedIn  bool
	loginErr  error
	statusErr error
	status    gwm.VehicleStatus

	logins  int
	fetches int
}

func (u *updaterStub) LoggedIn() bool {
	return u.loggedIn
}

func (u *updaterStub) Login(email, password string) error {
	u.logins++
	if u.loginErr == nil {
		u.loggedIn = true
	}
	return u.loginErr
}

func (u *updaterStub) Status(vin string) (gwm.VehicleStatus, error) {
	u.fetches++
	return u.status, u.statusErr
}

func testCoordinator(api Updater) *Coordinator {
	return NewCoordinator(util.NewLogger("test"), api, VehicleConfig{
		Email:    "user@example.org",
		Password: "secret",
		VIN:      "LGW123",
		Model:    "Jolion",
	}, time.Minute)
}

func collect(valueChan <-chan util.Param, done <-chan struct{}) map[string]interface{} {
	res := make(map[string]interface{})
	for {
		select {
		case p := <-valueChan:
			res[p.Key] = p.Val
		case <-done:
			for {
				select {
				case p := <-valueChan:
					res[p.Key] = p.Val
				default:
					return res
				}
			}
		}
	}
}

func TestCoordinatorUpdate(t *testing.T) {
	api := &updaterStub{
		status: gwm.VehicleStatus{
			Latitude:   55.75,
			Longitude:  37.61,
			UpdateTime: 1700000000000,
			Items: []gwm.Item{
				{Code: "2103010", Value: "68053"},
				{Code: "2208001", Value: "0"},
			},
		},
	}

	c := testCoordinator(api)
	assert.False(t, c.Healthy())

	valueChan := make(chan util.Param, 64)
	c.Prepare(valueChan)

	c.update()

	assert.Equal(t, 1, api.logins)
	assert.Equal(t, 1, api.fetches)
	assert.True(t, c.Healthy())

	done := make(chan struct{})
	close(done)
	values := collect(valueChan, done)

	assert.Equal(t, true, values["available"])
	assert.Equal(t, "LGW123", values["vin"])
	assert.Equal(t, "Jolion", values["model"])
	assert.Equal(t, 55.75, values["latitude"])
	assert.Equal(t, 68053.0, values["mileage"])
	assert.Equal(t, true, values["doorsLocked"])

	location, ok := values["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 37.61, location["longitude"])
}

func TestCoordinatorLoginOnce(t *testing.T) {
	api := &updaterStub{}

	c := testCoordinator(api)
	valueChan := make(chan util.Param, 64)
	c.Prepare(valueChan)

	c.update()
	c.update()

	// token survives between ticks
	assert.Equal(t, 1, api.logins)
	assert.Equal(t, 2, api.fetches)
}

func TestCoordinatorLoginFailure(t *testing.T) {
	api := &updaterStub{loginErr: errors.New("account or password wrong")}

	c := testCoordinator(api)
	valueChan := make(chan util.Param, 64)
	c.Prepare(valueChan)

	c.update()

	assert.Zero(t, api.fetches)
	assert.False(t, c.Healthy())

	done := make(chan struct{})
	close(done)
	values := collect(valueChan, done)

	assert.Equal(t, false, values["available"])
	assert.NotContains(t, values, "vin")
}

func TestCoordinatorStatusFailure(t *testing.T) {
	api := &updaterStub{loggedIn: true, statusErr: errors.New("gateway timeout")}

	c := testCoordinator(api)
	valueChan := make(chan util.Param, 64)
	c.Prepare(valueChan)

	c.update()

	assert.Zero(t, api.logins)
	assert.Equal(t, 1, api.fetches)
	assert.False(t, c.Healthy())
}

func TestCoordinatorRecovery(t *testing.T) {
	api := &updaterStub{loggedIn: true, statusErr: errors.New("gateway timeout")}

	c := testCoordinator(api)
	valueChan := make(chan util.Param, 64)
	c.Prepare(valueChan)

	c.update()
	assert.False(t, c.Healthy())

	api.statusErr = nil
	c.update()
	assert.True(t, c.Healthy())
}

package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

func TestEnsure(t *testing.T) {
	vehicles := []gwm.Vehicle{
		{VIN: "LGW123"},
		{VIN: "LGW456"},
	}

	res, err := Ensure("LGW456", vehicles)
	require.NoError(t, err)
	assert.Equal(t, "LGW456", res.VIN)

	// case-insensitive with surrounding whitespace
	res, err = Ensure("  lgw123 ", vehicles)
	require.NoError(t, err)
	assert.Equal(t, "LGW123", res.VIN)

	_, err = Ensure("LGW999", vehicles)
	assert.Error(t, err)
}

func TestEnsureSoleVehicle(t *testing.T) {
	sole := []gwm.Vehicle{{VIN: "LGW123"}}

	res, err := Ensure("", sole)
	require.NoError(t, err)
	assert.Equal(t, "LGW123", res.VIN)

	_, err = Ensure("", []gwm.Vehicle{{VIN: "A"}, {VIN: "B"}})
	assert.Error(t, err)

	_, err = Ensure("", nil)
	assert.Error(t, err)
}

package vehicle

import (
	"fmt"
	"strings"

	"github.com/thoas/go-funk"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

// Ensure returns the vehicle matching vin from the account's vehicle list,
// or the sole vehicle if vin is empty
func Ensure(vin string, vehicles []gwm.Vehicle) (gwm.Vehicle, error) {
	if vin = strings.ToUpper(strings.TrimSpace(vin)); vin == "" {
		if len(vehicles) == 1 {
			return vehicles[0], nil
		}

		return gwm.Vehicle{}, fmt.Errorf("cannot find vehicle: %d bound to account", len(vehicles))
	}

	if res := funk.Find(vehicles, func(v gwm.Vehicle) bool {
		return strings.ToUpper(v.VIN) == vin
	}); res != nil {
		return res.(gwm.Vehicle), nil
	}

	return gwm.Vehicle{}, fmt.Errorf("cannot find vehicle: %s", vin)
}

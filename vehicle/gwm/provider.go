package gwm

import (
	"time"

	"github.com/wad350/gwm-home-assistant/provider"
)

// Provider caches status fetches for one vehicle so that multiple consumers
// share a single upstream request per cache window
type Provider struct {
	statusG func() (VehicleStatus, error)
}

// NewProvider creates a cached status provider for the given vin
func NewProvider(api *API, vin string, cache time.Duration) *Provider {
	return &Provider{
		statusG: provider.Cached(func() (VehicleStatus, error) {
			return api.Status(vin)
		}, cache),
	}
}

// Status returns the cached last-known status
func (v *Provider) Status() (VehicleStatus, error) {
	return v.statusG()
}

// Snapshot returns the decoded snapshot of the cached status
func (v *Provider) Snapshot() (Status, error) {
	res, err := v.statusG()
	return Decode(res.Items), err
}

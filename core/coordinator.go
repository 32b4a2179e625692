package core

import (
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/vehicle/gwm"
)

// Updater is the vehicle api surface the coordinator drives
type Updater interface {
	LoggedIn() bool
	Login(email, password string) error
	Status(vin string) (gwm.VehicleStatus, error)
}

// VehicleConfig describes the polled vehicle and its account
type VehicleConfig struct {
	Email    string
	Password string
	VIN      string
	Model    string
	Number   string // license plate
}

// Coordinator polls the vehicle status on a fixed interval and publishes the
// decoded values. Each tick is one unit of work: login if no token is cached,
// fetch the status, decode, publish. Any failure is a single transient tick
// failure; the next tick starts over.
type Coordinator struct {
	log    *util.Logger
	clock  clock.Clock
	api    Updater
	conf   VehicleConfig
	waiter *util.Waiter

	valueChan chan<- util.Param
}

// NewCoordinator creates the polling coordinator for one vehicle
func NewCoordinator(log *util.Logger, api Updater, conf VehicleConfig, interval time.Duration) *Coordinator {
	return &Coordinator{
		log:    log,
		clock:  clock.New(),
		api:    api,
		conf:   conf,
		waiter: util.NewWaiter(3 * interval),
	}
}

// Prepare attaches the publish channel
func (c *Coordinator) Prepare(valueChan chan<- util.Param) {
	c.valueChan = valueChan
}

// Healthy reports whether the last poll window produced a value
func (c *Coordinator) Healthy() bool {
	return c.waiter.Overdue() == nil
}

// Run polls on the given interval until stopC is closed. The first poll is
// executed immediately.
func (c *Coordinator) Run(stopC chan struct{}, interval time.Duration) {
	ticker := c.clock.Ticker(interval)
	defer ticker.Stop()

	for c.update(); ; {
		select {
		case <-ticker.C:
			c.update()
		case <-stopC:
			return
		}
	}
}

// update performs one tick and records its outcome
func (c *Coordinator) update() {
	updateCounter.Inc()

	if err := c.tick(); err != nil {
		failureCounter.Inc()
		c.log.ERROR.Printf("update failed: %v", err)
		c.publish("available", false)
		return
	}

	lastUpdate.SetToCurrentTime()
	c.waiter.Update()
	c.publish("available", true)
}

func (c *Coordinator) tick() error {
	if !c.api.LoggedIn() {
		if err := c.api.Login(c.conf.Email, c.conf.Password); err != nil {
			return err
		}
	}

	res, err := c.api.Status(c.conf.VIN)
	if err != nil {
		return fmt.Errorf("vehicle status: %w", err)
	}

	c.publishStatus(gwm.Decode(res.Items), res)

	return nil
}

func (c *Coordinator) publish(key string, val interface{}) {
	if c.valueChan == nil {
		return
	}

	c.valueChan <- util.Param{Key: key, Val: val}
}

func (c *Coordinator) publishStatus(status gwm.Status, res gwm.VehicleStatus) {
	c.publish("vin", c.conf.VIN)
	c.publish("model", c.conf.Model)
	c.publish("vehicleNumber", c.conf.Number)

	c.publish("latitude", res.Latitude)
	c.publish("longitude", res.Longitude)
	c.publish("updateTime", res.UpdateTime)
	c.publish("serviceStatus", res.ServiceStatus)

	// combined location record for the device tracker
	c.publish("location", map[string]interface{}{
		"latitude":  res.Latitude,
		"longitude": res.Longitude,
	})

	for key, val := range status.Values() {
		c.publish(key, val)
	}
}

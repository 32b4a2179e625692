package server

import (
	"encoding/json"
	"fmt"
	"strings"
)

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name"`
}

type discoveryConfig struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	StateTopic          string          `json:"state_topic,omitempty"`
	AvailabilityTopic   string          `json:"availability_topic,omitempty"`
	DeviceClass         string          `json:"device_class,omitempty"`
	UnitOfMeasurement   string          `json:"unit_of_measurement,omitempty"`
	PayloadOn           string          `json:"payload_on,omitempty"`
	PayloadOff          string          `json:"payload_off,omitempty"`
	JSONAttributesTopic string          `json:"json_attributes_topic,omitempty"`
	SourceType          string          `json:"source_type,omitempty"`
	Device              discoveryDevice `json:"device"`
}

type discoveryEntity struct {
	key         string
	name        string
	component   string
	deviceClass string
	unit        string
}

var discoveryEntities = []discoveryEntity{
	{key: "mileage", name: "Mileage", component: "sensor", deviceClass: "distance", unit: "km"},
	{key: "fuelRange", name: "Fuel range", component: "sensor", deviceClass: "distance", unit: "km"},
	{key: "fuelVolume", name: "Fuel volume", component: "sensor", deviceClass: "volume", unit: "L"},
	{key: "battery12v", name: "12V battery voltage", component: "sensor", deviceClass: "voltage", unit: "V"},
	{key: "tirePressureFl", name: "Tire pressure front left", component: "sensor", deviceClass: "pressure", unit: "kPa"},
	{key: "tirePressureFr", name: "Tire pressure front right", component: "sensor", deviceClass: "pressure", unit: "kPa"},
	{key: "tirePressureRl", name: "Tire pressure rear left", component: "sensor", deviceClass: "pressure", unit: "kPa"},
	{key: "tirePressureRr", name: "Tire pressure rear right", component: "sensor", deviceClass: "pressure", unit: "kPa"},
	{key: "tireTempFl", name: "Tire temperature front left", component: "sensor", deviceClass: "temperature", unit: "°C"},
	{key: "tireTempFr", name: "Tire temperature front right", component: "sensor", deviceClass: "temperature", unit: "°C"},
	{key: "tireTempRl", name: "Tire temperature rear left", component: "sensor", deviceClass: "temperature", unit: "°C"},
	{key: "tireTempRr", name: "Tire temperature rear right", component: "sensor", deviceClass: "temperature", unit: "°C"},
	{key: "engineState", name: "Engine state", component: "sensor"},
	{key: "doorsLocked", name: "Doors locked", component: "binary_sensor"},
	{key: "doorFrontLeft", name: "Door front left", component: "binary_sensor", deviceClass: "door"},
	{key: "doorFrontRight", name: "Door front right", component: "binary_sensor", deviceClass: "door"},
	{key: "doorRearLeft", name: "Door rear left", component: "binary_sensor", deviceClass: "door"},
	{key: "doorRearRight", name: "Door rear right", component: "binary_sensor", deviceClass: "door"},
	{key: "doorTrunk", name: "Trunk", component: "binary_sensor", deviceClass: "door"},
	{key: "hood", name: "Hood", component: "binary_sensor", deviceClass: "door"},
	{key: "airConditioner", name: "Air conditioner", component: "binary_sensor", deviceClass: "running"},
	{key: "sunroofPosition", name: "Sunroof position", component: "sensor", unit: "%"},
	{key: "signalStrength", name: "Signal strength", component: "sensor"},
	{key: "gpsAuthorized", name: "GPS authorized", component: "binary_sensor"},
	{key: "available", name: "Available", component: "binary_sensor", deviceClass: "connectivity"},
}

// Discovery announces sensors for a vehicle under the discovery prefix,
// typically homeassistant. Retained so the platform recreates entities
// after restarts.
func (m *MQTT) Discovery(prefix, vin, model string) {
	device := discoveryDevice{
		Identifiers:  []string{"gwm_" + strings.ToLower(vin)},
		Manufacturer: "GWM",
		Model:        model,
		Name:         strings.TrimSpace(fmt.Sprintf("GWM %s", model)),
	}

	availability := m.root + "/status"

	for _, e := range discoveryEntities {
		cfg := discoveryConfig{
			Name:              e.name,
			UniqueID:          fmt.Sprintf("gwm_%s_%s", strings.ToLower(vin), e.key),
			StateTopic:        fmt.Sprintf("%s/%s/%s", m.root, vin, e.key),
			AvailabilityTopic: availability,
			DeviceClass:       e.deviceClass,
			UnitOfMeasurement: e.unit,
			Device:            device,
		}

		if e.component == "binary_sensor" {
			cfg.PayloadOn = "true"
			cfg.PayloadOff = "false"
		}

		m.publishDiscovery(prefix, e.component, vin, e.key, cfg)
	}

	tracker := discoveryConfig{
		Name:                "Location",
		UniqueID:            fmt.Sprintf("gwm_%s_location", strings.ToLower(vin)),
		JSONAttributesTopic: fmt.Sprintf("%s/%s/location", m.root, vin),
		AvailabilityTopic:   availability,
		SourceType:          "gps",
		Device:              device,
	}
	m.publishDiscovery(prefix, "device_tracker", vin, "location", tracker)
}

func (m *MQTT) publishDiscovery(prefix, component, vin, key string, cfg discoveryConfig) {
	topic := fmt.Sprintf("%s/%s/gwm_%s/%s/config", prefix, component, strings.ToLower(vin), key)

	b, err := json.Marshal(cfg)
	if err != nil {
		m.log.ERROR.Printf("encode %s: %v", topic, err)
		return
	}

	m.publishString(topic, true, string(b))
}

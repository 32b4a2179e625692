package gwm

import (
	"encoding/json"
	"fmt"
)

// success codes of the gateway response envelope
const (
	codeOK     = "0"
	codeOKLong = "000000"
)

// Response is the gateway response envelope
type Response struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Err converts a non-success response code into an error
func (r Response) Err() error {
	if r.Code == codeOK || r.Code == codeOKLong {
		return nil
	}

	return fmt.Errorf("unexpected response: %s (%s)", r.Code, r.Description)
}

// LoginResponse is the loginAccount response
type LoginResponse struct {
	Response
	Data json.RawMessage `json:"data"`
}

// VehiclesResponse is the acquireVehicles response
type VehiclesResponse struct {
	Response
	Data []Vehicle `json:"data"`
}

// Vehicle describes one vehicle bound to the account
type Vehicle struct {
	VIN           string `json:"vin"`
	Type          string `json:"vtype"`
	Color         string `json:"color"`
	VehicleNumber string `json:"vehicleNumber"`
}

// Label formats the vehicle for interactive selection
func (v Vehicle) Label() string {
	label := v.Type
	if label == "" {
		label = "unknown model"
	}
	if v.Color != "" {
		label += fmt.Sprintf(" (%s)", v.Color)
	}
	if v.VehicleNumber != "" {
		label += " - " + v.VehicleNumber
	}
	if v.VIN != "" {
		label += fmt.Sprintf(" [%s]", v.VIN)
	}

	return label
}

// StatusResponse is the getLastStatus response
type StatusResponse struct {
	Response
	Data VehicleStatus `json:"data"`
}

// VehicleStatus is the last-known status payload
type VehicleStatus struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	UpdateTime    int64   `json:"updateTime"`
	ServiceStatus int     `json:"serviceStatus"`
	Items         []Item  `json:"items"`
}

// Item is one raw telemetry reading
type Item struct {
	Code  string      `json:"code"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit,omitempty"`
}

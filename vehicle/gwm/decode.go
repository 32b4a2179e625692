package gwm

import (
	"fmt"
	"strconv"
)

// engine states reported by telemetry code 2016001
const (
	EngineOff      = "off"
	EngineStarting = "starting"
	EngineRunning  = "running"
)

// Status is the decoded snapshot of one status poll. Fields left nil (or
// empty for the engine state) were not reported or could not be decoded.
type Status struct {
	Battery12V *float64 `json:"battery12v,omitempty"`
	FuelVolume *float64 `json:"fuelVolume,omitempty"`
	Mileage    *float64 `json:"mileage,omitempty"`
	FuelRange  *float64 `json:"fuelRange,omitempty"`

	TirePressureFL *float64 `json:"tirePressureFl,omitempty"`
	TirePressureFR *float64 `json:"tirePressureFr,omitempty"`
	TirePressureRL *float64 `json:"tirePressureRl,omitempty"`
	TirePressureRR *float64 `json:"tirePressureRr,omitempty"`
	TireTempFL     *float64 `json:"tireTempFl,omitempty"`
	TireTempFR     *float64 `json:"tireTempFr,omitempty"`
	TireTempRL     *float64 `json:"tireTempRl,omitempty"`
	TireTempRR     *float64 `json:"tireTempRr,omitempty"`

	EngineState    string `json:"engineState,omitempty"`
	DoorsLocked    *bool  `json:"doorsLocked,omitempty"`
	DoorTrunk      *bool  `json:"doorTrunk,omitempty"`
	DoorFrontLeft  *bool  `json:"doorFrontLeft,omitempty"`
	DoorRearLeft   *bool  `json:"doorRearLeft,omitempty"`
	DoorFrontRight *bool  `json:"doorFrontRight,omitempty"`
	DoorRearRight  *bool  `json:"doorRearRight,omitempty"`
	Hood           *bool  `json:"hood,omitempty"`

	AirConditioner  *bool    `json:"airConditioner,omitempty"`
	SunroofPosition *float64 `json:"sunroofPosition,omitempty"`

	GpsAuthorized  *bool    `json:"gpsAuthorized,omitempty"`
	SignalStrength *float64 `json:"signalStrength,omitempty"`
}

// decoders dispatches telemetry codes to their snapshot field
var decoders = map[string]func(s *Status, v value){
	"2013005": func(s *Status, v value) { s.Battery12V = v.float() },
	"2017002": func(s *Status, v value) { s.FuelVolume = v.float() },
	"2103010": func(s *Status, v value) { s.Mileage = v.float() },
	"2011007": func(s *Status, v value) { s.FuelRange = v.float() },

	"2101001": func(s *Status, v value) { s.TirePressureFL = v.float() },
	"2101002": func(s *Status, v value) { s.TirePressureFR = v.float() },
	"2101003": func(s *Status, v value) { s.TirePressureRL = v.float() },
	"2101004": func(s *Status, v value) { s.TirePressureRR = v.float() },
	"2101005": func(s *Status, v value) { s.TireTempFL = v.float() },
	"2101006": func(s *Status, v value) { s.TireTempFR = v.float() },
	"2101007": func(s *Status, v value) { s.TireTempRL = v.float() },
	"2101008": func(s *Status, v value) { s.TireTempRR = v.float() },

	"2016001": func(s *Status, v value) { s.EngineState = engineState(v) },

	// 0 = locked, 1 = unlocked
	"2208001": func(s *Status, v value) { s.DoorsLocked = v.equals(0) },

	// 1 = open, 0 = closed
	"2206001": func(s *Status, v value) { s.DoorTrunk = v.equals(1) },
	"2206002": func(s *Status, v value) { s.DoorFrontLeft = v.equals(1) },
	"2206003": func(s *Status, v value) { s.DoorRearLeft = v.equals(1) },
	"2206004": func(s *Status, v value) { s.DoorFrontRight = v.equals(1) },
	"2206005": func(s *Status, v value) { s.DoorRearRight = v.equals(1) },
	"2212001": func(s *Status, v value) { s.Hood = v.equals(1) },

	"2202001": func(s *Status, v value) { s.AirConditioner = v.equals(1) },
	"2210005": func(s *Status, v value) { s.SunroofPosition = sunroofPosition(v) },

	"2310001": func(s *Status, v value) { s.GpsAuthorized = v.equals(1) },
	"4105008": func(s *Status, v value) { s.SignalStrength = v.float() },
}

// Decode maps raw telemetry items into a status snapshot. Unknown codes are
// ignored, values that resist numeric coercion leave their field unset.
func Decode(items []Item) Status {
	var res Status

	for _, item := range items {
		if decode, ok := decoders[item.Code]; ok {
			decode(&res, coerce(item.Value))
		}
	}

	return res
}

// Values returns the snapshot as publishable key/value pairs, omitting unset fields
func (s Status) Values() map[string]interface{} {
	res := make(map[string]interface{})

	for key, v := range map[string]*float64{
		"battery12v":      s.Battery12V,
		"fuelVolume":      s.FuelVolume,
		"mileage":         s.Mileage,
		"fuelRange":       s.FuelRange,
		"tirePressureFl":  s.TirePressureFL,
		"tirePressureFr":  s.TirePressureFR,
		"tirePressureRl":  s.TirePressureRL,
		"tirePressureRr":  s.TirePressureRR,
		"tireTempFl":      s.TireTempFL,
		"tireTempFr":      s.TireTempFR,
		"tireTempRl":      s.TireTempRL,
		"tireTempRr":      s.TireTempRR,
		"sunroofPosition": s.SunroofPosition,
		"signalStrength":  s.SignalStrength,
	} {
		if v != nil {
			res[key] = *v
		}
	}

	for key, v := range map[string]*bool{
		"doorsLocked":    s.DoorsLocked,
		"doorTrunk":      s.DoorTrunk,
		"doorFrontLeft":  s.DoorFrontLeft,
		"doorRearLeft":   s.DoorRearLeft,
		"doorFrontRight": s.DoorFrontRight,
		"doorRearRight":  s.DoorRearRight,
		"hood":           s.Hood,
		"airConditioner": s.AirConditioner,
		"gpsAuthorized":  s.GpsAuthorized,
	} {
		if v != nil {
			res[key] = *v
		}
	}

	if s.EngineState != "" {
		res["engineState"] = s.EngineState
	}

	return res
}

// value is the best-effort numeric coercion of a raw telemetry value
type value struct {
	num float64
	ok  bool
}

// coerce converts digit-only strings and json numbers; anything else is
// treated as not decodable
func coerce(v interface{}) value {
	switch v := v.(type) {
	case float64:
		return value{v, true}
	case int:
		return value{float64(v), true}
	case int64:
		return value{float64(v), true}
	case string:
		if isDigits(v) {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				return value{float64(n), true}
			}
		}
	}

	return value{}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (v value) float() *float64 {
	if !v.ok {
		return nil
	}

	f := v.num
	return &f
}

func (v value) equals(n float64) *bool {
	if !v.ok {
		return nil
	}

	b := v.num == n
	return &b
}

func engineState(v value) string {
	if !v.ok {
		return ""
	}

	switch v.num {
	case 0:
		return EngineOff
	case 1:
		return EngineStarting
	case 2:
		return EngineRunning
	}

	return fmt.Sprintf("unknown_%d", int64(v.num))
}

// sunroofPosition maps the closed marker 3 to 0, other values are the
// opening percentage
func sunroofPosition(v value) *float64 {
	if !v.ok {
		return nil
	}

	pos := v.num
	if pos == 3 {
		pos = 0
	}

	return &pos
}

package models

import (
	"encoding/json"
	"fmt"
)

// Flag is the traffic-light outcome of a single underwriting rule.
type Flag int

// Integer codes are part of the rendered output and must not be reordered.
const (
	FlagRed        Flag = 0
	FlagGreen      Flag = 1
	FlagAmber      Flag = 2
	FlagMediumRisk Flag = 3 // display only, no rule produces it
	FlagWhite      Flag = 4 // required data missing
)

var flagNames = map[Flag]string{
	FlagRed:        "RED",
	FlagGreen:      "GREEN",
	FlagAmber:      "AMBER",
	FlagMediumRisk: "MEDIUM_RISK",
	FlagWhite:      "WHITE",
}

// Code returns the integer code used in rendered rule lines.
func (f Flag) Code() int {
	return int(f)
}

// Valid reports whether f is one of the defined flags.
func (f Flag) Valid() bool {
	_, ok := flagNames[f]
	return ok
}

func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// MarshalJSON encodes the flag by name.
func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid flag %d", int(f))
	}
	return json.Marshal(f.String())
}

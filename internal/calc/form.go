// Package calc builds the engineering calculator requests and formats their
// results. The backend does all the engineering; this package only turns form
// fields into request bodies.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"voltdesk/internal/api"
	"voltdesk/internal/config"
)

// ErrInvalidNumber means a non-empty field did not parse as a number.
var ErrInvalidNumber = errors.New("not a number")

// Field labels, as shown next to each input.
const (
	LabelVoltage    = "V [Volt]"
	LabelCurrent    = "I [Ampere]"
	LabelResistance = "R [Ohm]"
	LabelRLCR       = "R [Ω]"
	LabelRLCL       = "L [H]"
	LabelRLCC       = "C [F]"
	LabelRLCF       = "f [Hz]"
)

// ParseOptional parses one form field. An empty field yields nil (sent as JSON null).
// Only finite decimal numbers are accepted: NaN, infinities and hex floats cannot
// be sent as JSON numbers and are rejected like any other non-number.
func ParseOptional(name, field string) (*float64, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return nil, nil
	}
	invalid := fmt.Errorf("%s: %q: %w", name, field, ErrInvalidNumber)
	if isHexFloat(s) {
		return nil, invalid
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, invalid
	}
	return &v, nil
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// OhmsForm is the Ohm's law form. Two of the three fields are normally filled.
type OhmsForm struct {
	V string
	I string
	R string
}

// Request converts the form into the request body.
func (f OhmsForm) Request() (api.OhmsRequest, error) {
	var req api.OhmsRequest
	var err error
	if req.V, err = ParseOptional("V", f.V); err != nil {
		return api.OhmsRequest{}, err
	}
	if req.I, err = ParseOptional("I", f.I); err != nil {
		return api.OhmsRequest{}, err
	}
	if req.R, err = ParseOptional("R", f.R); err != nil {
		return api.OhmsRequest{}, err
	}
	return req, nil
}

// RLCForm is the RLC impedance form.
type RLCForm struct {
	R    string
	L    string
	C    string
	F    string
	Mode string
}

// NewRLCForm returns a form pre-filled from the configured defaults.
func NewRLCForm(d config.RLCDefaults) RLCForm {
	mode := d.Mode
	if mode == "" {
		mode = config.ModeSeries
	}
	return RLCForm{R: d.R, L: d.L, C: d.C, F: d.F, Mode: mode}
}

// Request converts the form into the request body. An empty mode is sent as series.
func (f RLCForm) Request() (api.RLCRequest, error) {
	req := api.RLCRequest{Mode: f.Mode}
	if req.Mode == "" {
		req.Mode = config.ModeSeries
	}
	var err error
	if req.R, err = ParseOptional("R", f.R); err != nil {
		return api.RLCRequest{}, err
	}
	if req.L, err = ParseOptional("L", f.L); err != nil {
		return api.RLCRequest{}, err
	}
	if req.C, err = ParseOptional("C", f.C); err != nil {
		return api.RLCRequest{}, err
	}
	if req.F, err = ParseOptional("f", f.F); err != nil {
		return api.RLCRequest{}, err
	}
	return req, nil
}

// ToggleMode switches between series and parallel.
func ToggleMode(mode string) string {
	if mode == config.ModeParallel {
		return config.ModeSeries
	}
	return config.ModeParallel
}

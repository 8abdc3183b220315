package calc

import (
	"context"
	"encoding/json"
	"fmt"

	"voltdesk/internal/api"
	"voltdesk/internal/logging"
	"voltdesk/internal/session"
)

// Backend performs the calculator requests.
type Backend interface {
	CalculateOhms(ctx context.Context, req api.OhmsRequest) (json.RawMessage, error)
	CalculateRLC(ctx context.Context, req api.RLCRequest) (json.RawMessage, error)
}

// Kind names a calculator form.
type Kind int

const (
	KindOhms Kind = iota
	KindRLC
)

func (k Kind) String() string {
	switch k {
	case KindOhms:
		return "ohms"
	case KindRLC:
		return "rlc"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Job is one accepted calculator request.
type Job struct {
	Kind Kind
	Ohms api.OhmsRequest
	RLC  api.RLCRequest
}

// Calculator runs both forms behind a single pending gate, so at most one
// calculation is in flight at a time.
type Calculator struct {
	backend Backend
	gate    *session.Gate
}

// New returns a calculator using backend.
func New(backend Backend) *Calculator {
	return &Calculator{backend: backend, gate: session.NewGate()}
}

// Pending reports whether a calculation is in flight.
func (c *Calculator) Pending() bool {
	return c.gate.Pending()
}

// BeginOhms validates the form and enters the gate.
func (c *Calculator) BeginOhms(f OhmsForm) (Job, error) {
	req, err := f.Request()
	if err != nil {
		return Job{}, err
	}
	if !c.gate.TryEnter() {
		return Job{}, session.ErrPending
	}
	return Job{Kind: KindOhms, Ohms: req}, nil
}

// BeginRLC validates the form and enters the gate.
func (c *Calculator) BeginRLC(f RLCForm) (Job, error) {
	req, err := f.Request()
	if err != nil {
		return Job{}, err
	}
	if !c.gate.TryEnter() {
		return Job{}, session.ErrPending
	}
	return Job{Kind: KindRLC, RLC: req}, nil
}

// Call performs the request for a job.
func (c *Calculator) Call(ctx context.Context, j Job) (json.RawMessage, error) {
	if j.Kind == KindRLC {
		return c.backend.CalculateRLC(ctx, j.RLC)
	}
	return c.backend.CalculateOhms(ctx, j.Ohms)
}

// Complete builds the displayed result and leaves the gate.
func (c *Calculator) Complete(j Job, raw json.RawMessage, err error) Result {
	defer c.gate.Leave()

	if err != nil {
		logging.Calc("%s calculation failed: %v", j.Kind, err)
		return Result{Text: api.ErrorDetail(err)}
	}
	logging.Calc("%s calculation done (%d bytes)", j.Kind, len(raw))
	return Result{OK: true, Text: FormatResult(raw), Rows: ResultRows(raw)}
}

// Ohms runs one Ohm's law calculation. Only local rejections are returned as errors.
func (c *Calculator) Ohms(ctx context.Context, f OhmsForm) (Result, error) {
	j, err := c.BeginOhms(f)
	if err != nil {
		return Result{}, err
	}
	raw, callErr := c.Call(ctx, j)
	return c.Complete(j, raw, callErr), nil
}

// RLC runs one impedance calculation. Only local rejections are returned as errors.
func (c *Calculator) RLC(ctx context.Context, f RLCForm) (Result, error) {
	j, err := c.BeginRLC(f)
	if err != nil {
		return Result{}, err
	}
	raw, callErr := c.Call(ctx, j)
	return c.Complete(j, raw, callErr), nil
}

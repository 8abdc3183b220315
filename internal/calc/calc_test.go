package calc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"voltdesk/internal/api"
	"voltdesk/internal/config"
	"voltdesk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	ohms  []api.OhmsRequest
	rlc   []api.RLCRequest
	reply json.RawMessage
	err   error
}

func (f *fakeBackend) CalculateOhms(ctx context.Context, req api.OhmsRequest) (json.RawMessage, error) {
	f.ohms = append(f.ohms, req)
	return f.reply, f.err
}

func (f *fakeBackend) CalculateRLC(ctx context.Context, req api.RLCRequest) (json.RawMessage, error) {
	f.rlc = append(f.rlc, req)
	return f.reply, f.err
}

func ptr(v float64) *float64 { return &v }

func TestParseOptional(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		want    *float64
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"whitespace", "   ", nil, false},
		{"integer", "12", ptr(12), false},
		{"decimal", "0.0001", ptr(0.0001), false},
		{"exponent", "1e-3", ptr(0.001), false},
		{"negative", "-5", ptr(-5), false},
		{"zero", "0", ptr(0), false},
		{"letters", "abc", nil, true},
		{"trailing junk", "12V", nil, true},
		{"nan", "NaN", nil, true},
		{"inf", "inf", nil, true},
		{"negative infinity", "-Infinity", nil, true},
		{"hex float", "0x1p4", nil, true},
		{"signed hex", "-0X10", nil, true},
		{"overflow", "1e400", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptional("V", tt.field)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNumber)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOhmsForm_EmptyFieldsBecomeNull(t *testing.T) {
	req, err := OhmsForm{V: "12", I: "", R: "4"}.Request()
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"V":12,"I":null,"R":4}`, string(data))
}

func TestRLCForm_Defaults(t *testing.T) {
	form := NewRLCForm(config.DefaultConfig().Calculator.RLC)
	assert.Equal(t, RLCForm{R: "100", L: "0.01", C: "0.0001", F: "60", Mode: config.ModeSeries}, form)

	req, err := form.Request()
	require.NoError(t, err)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"R":100,"L":0.01,"C":0.0001,"f":60,"mode":"직렬"}`, string(data))
}

func TestRLCForm_EmptyModeIsSeries(t *testing.T) {
	req, err := RLCForm{R: "1"}.Request()
	require.NoError(t, err)
	assert.Equal(t, config.ModeSeries, req.Mode)
	assert.Nil(t, req.F)
}

func TestToggleMode(t *testing.T) {
	assert.Equal(t, config.ModeParallel, ToggleMode(config.ModeSeries))
	assert.Equal(t, config.ModeSeries, ToggleMode(config.ModeParallel))
	assert.Equal(t, config.ModeParallel, ToggleMode(""))
}

func TestFormatResult(t *testing.T) {
	got := FormatResult(json.RawMessage(`{"V":12,"I":3,"R":4,"P":36}`))
	assert.Equal(t, "{\n  \"V\": 12,\n  \"I\": 3,\n  \"R\": 4,\n  \"P\": 36\n}", got)

	assert.Equal(t, "not json", FormatResult(json.RawMessage("not json")))
}

func TestResultRows(t *testing.T) {
	rows := ResultRows(json.RawMessage(`{"Z":"100.5 Ω","phase":-12.3,"parts":[1,2]}`))
	assert.Equal(t, []Row{
		{Key: "Z", Value: "100.5 Ω"},
		{Key: "parts", Value: "[1,2]"},
		{Key: "phase", Value: "-12.3"},
	}, rows)

	assert.Nil(t, ResultRows(json.RawMessage(`[1,2,3]`)))
	assert.Nil(t, ResultRows(json.RawMessage(`"text"`)))
	assert.Nil(t, ResultRows(json.RawMessage(`null`)))
}

func TestCalculator_OhmsSuccess(t *testing.T) {
	be := &fakeBackend{reply: json.RawMessage(`{"I":3}`)}
	c := New(be)

	res, err := c.Ohms(context.Background(), OhmsForm{V: "12", R: "4"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "{\n  \"I\": 3\n}", res.Text)
	assert.Equal(t, []Row{{Key: "I", Value: "3"}}, res.Rows)

	require.Len(t, be.ohms, 1)
	assert.Equal(t, api.OhmsRequest{V: ptr(12), R: ptr(4)}, be.ohms[0])
	assert.False(t, c.Pending())
}

func TestCalculator_FailureShowsDetail(t *testing.T) {
	be := &fakeBackend{err: &api.APIError{StatusCode: 400, Detail: "mode는 '직렬' 또는 '병렬'이어야 합니다."}}
	c := New(be)

	res, err := c.RLC(context.Background(), RLCForm{Mode: "x"})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "mode는 '직렬' 또는 '병렬'이어야 합니다.", res.Text)
	assert.Nil(t, res.Rows)
	assert.False(t, c.Pending())
}

func TestCalculator_TransportFailure(t *testing.T) {
	c := New(&fakeBackend{err: errors.New("connection reset")})
	res, err := c.Ohms(context.Background(), OhmsForm{})
	require.NoError(t, err)
	assert.Equal(t, "connection reset", res.Text)
}

func TestCalculator_InvalidNumberMakesNoCall(t *testing.T) {
	be := &fakeBackend{}
	c := New(be)

	_, err := c.Ohms(context.Background(), OhmsForm{V: "twelve"})
	assert.ErrorIs(t, err, ErrInvalidNumber)
	_, err = c.RLC(context.Background(), RLCForm{F: "sixty"})
	assert.ErrorIs(t, err, ErrInvalidNumber)

	for _, field := range []string{"NaN", "inf", "-Infinity", "0x1p4"} {
		_, err = c.Ohms(context.Background(), OhmsForm{V: field, I: "1"})
		assert.ErrorIs(t, err, ErrInvalidNumber, field)
		_, err = c.RLC(context.Background(), RLCForm{R: field})
		assert.ErrorIs(t, err, ErrInvalidNumber, field)
	}

	assert.Empty(t, be.ohms)
	assert.Empty(t, be.rlc)
	assert.False(t, c.Pending())
}

func TestCalculator_FormsShareOneGate(t *testing.T) {
	be := &fakeBackend{reply: json.RawMessage(`{}`)}
	c := New(be)

	job, err := c.BeginOhms(OhmsForm{V: "1", I: "1"})
	require.NoError(t, err)
	assert.True(t, c.Pending())

	_, err = c.BeginRLC(NewRLCForm(config.DefaultConfig().Calculator.RLC))
	assert.ErrorIs(t, err, session.ErrPending)
	_, err = c.BeginOhms(OhmsForm{})
	assert.ErrorIs(t, err, session.ErrPending)

	raw, callErr := c.Call(context.Background(), job)
	c.Complete(job, raw, callErr)
	assert.False(t, c.Pending())
	assert.Len(t, be.ohms, 1)
	assert.Empty(t, be.rlc)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ohms", KindOhms.String())
	assert.Equal(t, "rlc", KindRLC.String())
}

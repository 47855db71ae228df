package conversion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRateSource struct {
	mock.Mock
}

func (m *mockRateSource) LookupRate(ctx context.Context, req Request) (*LookupResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LookupResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEngine_Convert(t *testing.T) {
	src := new(mockRateSource)
	src.On("LookupRate", mock.Anything, Request{Base: "CAD", Dest: "USD", Amount: 10}).
		Return(&LookupResult{Shape: DirectRate, Base: "CAD", Rates: map[string]float64{"USD": 0.75}, Provider: "test"}, nil).
		Once()

	engine := NewEngine(src, discardLogger())
	res, err := engine.Convert(context.Background(), " cad", "usd ", "10")
	require.NoError(t, err)
	assert.Equal(t, "0.7500", res.Rate)
	assert.Equal(t, "7.50", res.Converted)
	assert.Equal(t, "test", res.Provider)
	src.AssertExpectations(t)
}

func TestEngine_ValidationShortCircuits(t *testing.T) {
	src := new(mockRateSource)
	engine := NewEngine(src, discardLogger())

	_, err := engine.Convert(context.Background(), "ca", "USD", "1")
	assert.ErrorIs(t, err, ErrInvalidCurrencyCode)

	_, err = engine.Convert(context.Background(), "CAD", "USD", "-5")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	src.AssertNotCalled(t, "LookupRate", mock.Anything, mock.Anything)
}

func TestEngine_SameCurrency(t *testing.T) {
	src := new(mockRateSource)
	src.On("LookupRate", mock.Anything, Request{Base: "USD", Dest: "USD", Amount: 3}).
		Return(&LookupResult{Shape: CrossRate, Base: "USD", Rates: map[string]float64{"USD": 1}, Provider: "test"}, nil).
		Once()

	res, err := NewEngine(src, discardLogger()).Convert(context.Background(), "usd", "USD", "3")
	require.NoError(t, err)
	assert.Equal(t, "1.0000", res.Rate)
	assert.Equal(t, "3.00", res.Converted)
	assert.Equal(t, "test", res.Provider)
	src.AssertExpectations(t)
}

func TestEngine_SameUnknownCurrency(t *testing.T) {
	src := new(mockRateSource)
	src.On("LookupRate", mock.Anything, Request{Base: "XXX", Dest: "XXX", Amount: 10}).
		Return(&LookupResult{Shape: CrossRate, Base: "USD", Rates: map[string]float64{}, Provider: "test"}, nil).
		Once()

	res, err := NewEngine(src, discardLogger()).Convert(context.Background(), "XXX", "XXX", "10")
	assert.ErrorIs(t, err, ErrRateNotFound)
	assert.Equal(t, Result{}, res)
	assert.Equal(t, MsgRequestFailed, UserMessage(err))
	src.AssertExpectations(t)
}

func TestEngine_LookupErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"transport error becomes network error", errors.New("connection refused"), ErrNetwork},
		{"provider error keeps network kind", &ProviderError{Provider: "p", Err: ErrNetwork}, ErrNetwork},
		{"rate not found passes through", ErrRateNotFound, ErrRateNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := new(mockRateSource)
			src.On("LookupRate", mock.Anything, mock.Anything).Return(nil, tc.err)

			_, err := NewEngine(src, discardLogger()).Convert(context.Background(), "CAD", "USD", "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, MsgRequestFailed, UserMessage(err))
		})
	}
}

func TestEngine_MissingDestination(t *testing.T) {
	src := new(mockRateSource)
	src.On("LookupRate", mock.Anything, mock.Anything).
		Return(&LookupResult{Shape: DirectRate, Rates: map[string]float64{"EUR": 0.68}}, nil)

	res, err := NewEngine(src, discardLogger()).Convert(context.Background(), "CAD", "USD", "1")
	assert.ErrorIs(t, err, ErrRateNotFound)
	assert.Equal(t, Result{}, res)
}

func TestEngine_NoSource(t *testing.T) {
	_, err := NewEngine(nil, nil).Convert(context.Background(), "CAD", "USD", "1")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, MsgInvalidCurrencyCode, UserMessage(ErrInvalidCurrencyCode))
	assert.Equal(t, MsgInvalidAmount, UserMessage(ErrInvalidAmount))
	assert.Equal(t, MsgRequestFailed, UserMessage(ErrFormatting))
	assert.True(t, IsProviderError(&ProviderError{Provider: "x", Err: ErrNetwork}))
}

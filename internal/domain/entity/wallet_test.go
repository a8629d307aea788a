package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "system program", input: "11111111111111111111111111111111"},
		{name: "token program", input: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"},
		{name: "surrounding spaces", input: "  So11111111111111111111111111111111111111112 "},
		{name: "empty", input: "", wantErr: true},
		{name: "not base58", input: "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl", wantErr: true},
		{name: "too short", input: "3yZe7d", wantErr: true},
		{name: "evm address", input: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseWalletAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidWalletAddress)
				return
			}
			require.NoError(t, err)
			assert.Len(t, addr.PublicKey().Bytes(), 32)
		})
	}
}

func TestFlexNumber(t *testing.T) {
	var n FlexNumber
	require.NoError(t, n.UnmarshalJSON([]byte(`"1500000000"`)))
	f, err := n.Float64()
	require.NoError(t, err)
	assert.Equal(t, 1.5e9, f)

	require.NoError(t, n.UnmarshalJSON([]byte(`2.5`)))
	f, err = n.Float64()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	require.NoError(t, n.UnmarshalJSON([]byte(`null`)))
	assert.False(t, n.IsSet())
	f, err = n.Float64()
	require.NoError(t, err)
	assert.Zero(t, f)

	require.NoError(t, n.UnmarshalJSON([]byte(`"abc"`)))
	_, err = n.Float64()
	assert.Error(t, err)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeComplete, OutcomeOf(0, 0))
	assert.Equal(t, OutcomeComplete, OutcomeOf(3, 3))
	assert.Equal(t, OutcomePartial, OutcomeOf(1, 3))
	assert.Equal(t, OutcomeFailed, OutcomeOf(0, 3))
}

package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSetAlertArgs(t *testing.T) {
	tests := []struct {
		args      string
		token     string
		threshold string
		wantErr   bool
	}{
		{args: "bitcoin 50000", token: "bitcoin", threshold: "50000"},
		{args: "  Shiba   Inu 0.00001 ", token: "Shiba Inu", threshold: "0.00001"},
		{args: "bitcoin", wantErr: true},
		{args: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			token, threshold, err := ParseSetAlertArgs(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArguments)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.threshold, threshold)
		})
	}
}

func TestParseCryptoPriceArgs(t *testing.T) {
	currencies, cryptos, err := ParseCryptoPriceArgs("usd,eur bitcoin,ethereum")
	require.NoError(t, err)
	assert.Equal(t, "usd,eur", currencies)
	assert.Equal(t, "bitcoin,ethereum", cryptos)

	_, _, err = ParseCryptoPriceArgs("usd")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestParseAlertIDAndTokenID(t *testing.T) {
	id, err := ParseAlertID(" 65f0c2a1 ")
	require.NoError(t, err)
	assert.Equal(t, "65f0c2a1", id)

	_, err = ParseAlertID("1 2")
	assert.ErrorIs(t, err, ErrInvalidArguments)

	token, err := ParseTokenID("Bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", token)

	_, err = ParseTokenID("  ")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

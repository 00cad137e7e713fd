package mongo

import (
	"testing"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, raw := range []string{"0", "1", "42000.5", "0.00000123", "123456789.987654321"} {
		value := decimal.RequireFromString(raw)
		d128, err := toDecimal128(value)
		require.NoError(t, err, raw)

		back, err := fromDecimal128(d128)
		require.NoError(t, err, raw)
		assert.True(t, value.Equal(back), "%s != %s", raw, back)
	}
}

func TestMapAlert_LastPriceAbsentVsZero(t *testing.T) {
	alert := domain.Alert{
		OwnerID:   100,
		TokenID:   "solana",
		TokenName: "Solana",
		Threshold: decimal.RequireFromString("150.25"),
	}

	doc, err := mapAlertToDocument(alert)
	require.NoError(t, err)
	assert.Nil(t, doc.LastPrice)

	doc.ID = primitive.NewObjectID()
	mapped, err := mapAlertToDomain(doc)
	require.NoError(t, err)
	assert.Equal(t, doc.ID.Hex(), mapped.ID)
	assert.Nil(t, mapped.LastPrice)
	assert.True(t, mapped.Threshold.Equal(alert.Threshold))

	zero := decimal.Zero
	alert.LastPrice = &zero
	doc, err = mapAlertToDocument(alert)
	require.NoError(t, err)
	require.NotNil(t, doc.LastPrice)

	mapped, err = mapAlertToDomain(doc)
	require.NoError(t, err)
	require.NotNil(t, mapped.LastPrice)
	assert.True(t, mapped.LastPrice.IsZero())
}

func TestAlertDocument_OmitsAbsentLastPrice(t *testing.T) {
	doc, err := mapAlertToDocument(domain.Alert{TokenID: "bitcoin", Threshold: decimal.NewFromInt(1)})
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "last_price")
	assert.NotContains(t, fields, "_id")
	assert.Equal(t, "bitcoin", fields["token_id"])
}

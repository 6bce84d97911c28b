package token

import (
	"testing"
	"time"

	"github.com/chatcart/backend/internal/domain/clarify"
	"github.com/chatcart/backend/internal/domain/shared"
	"github.com/chatcart/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(ttl time.Duration) *Codec {
	return NewCodec(config.TokenConfig{
		Secret:  "test-secret-at-least-32-characters-long",
		LinkTTL: ttl,
		Issuer:  "chatcart-test",
	})
}

func testPayload() clarify.Payload {
	customerID := uuid.New()
	return clarify.Payload{
		OrgID:     uuid.New(),
		OrderID:   uuid.New(),
		LineIndex: 2,
		Options: []clarify.Option{
			{Label: "Maggi 70g", Canonical: "Noodles", Brand: "Maggi", Variant: "70g", Score: 0.9, Recommended: true},
			{Label: "Top Ramen 70g", Canonical: "Noodles", Brand: "Top Ramen", Variant: "70g", Score: 0.6},
		},
		Ask:           clarify.AskFlags{Brand: true},
		AllowFreeform: true,
		CustomerID:    &customerID,
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec(time.Hour)
	payload := testPayload()

	signed, err := codec.Sign(payload)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	decoded, err := codec.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, payload.OrgID, decoded.OrgID)
	assert.Equal(t, payload.OrderID, decoded.OrderID)
	assert.Equal(t, payload.LineIndex, decoded.LineIndex)
	assert.Equal(t, payload.Options, decoded.Options)
	assert.Equal(t, payload.Ask, decoded.Ask)
	assert.Equal(t, payload.AllowFreeform, decoded.AllowFreeform)
	require.NotNil(t, decoded.CustomerID)
	assert.Equal(t, *payload.CustomerID, *decoded.CustomerID)
}

func TestCodec_RejectsInvalidPayload(t *testing.T) {
	codec := testCodec(time.Hour)
	payload := testPayload()
	payload.Options = nil

	_, err := codec.Sign(payload)
	assert.Error(t, err)
}

func TestCodec_RejectsWrongSecret(t *testing.T) {
	signed, err := testCodec(time.Hour).Sign(testPayload())
	require.NoError(t, err)

	other := NewCodec(config.TokenConfig{
		Secret:  "a-completely-different-signing-secret!!",
		LinkTTL: time.Hour,
		Issuer:  "chatcart-test",
	})

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestCodec_RejectsExpiredToken(t *testing.T) {
	codec := testCodec(-time.Minute)

	signed, err := codec.Sign(testPayload())
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec := testCodec(time.Hour)

	for _, input := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := codec.Verify(input)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid)
	}
}

func TestHash_StableAndDistinct(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash("abc"), 64)
}

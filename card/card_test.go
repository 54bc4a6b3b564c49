package card

import (
	"testing"

	"github.com/schindelhauer/tmcg/key"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T, n int) []*key.PublicKey {
	t.Helper()
	keys := make([]*key.PublicKey, n)
	for i := range keys {
		sk, err := key.GenerateSecretKey("player", "player@example.com", 512)
		require.NoError(t, err)
		keys[i] = sk.Public()
	}
	return keys
}

func TestOpenCardDeterministic(t *testing.T) {
	keys := testKeys(t, 3)
	c1 := CreateOpenCard(keys, 5, 4)
	c2 := CreateOpenCard(keys, 5, 4)
	require.Equal(t, c1.Serialize(), c2.Serialize())
}

func TestPrivateCardRoundTrip(t *testing.T) {
	keys := testKeys(t, 3)
	c, cs, err := CreatePrivateCard(keys, 1, 6, 4)
	require.NoError(t, err)
	require.Equal(t, 6, TypeOfCard(cs))

	for i, row := range c.Z {
		if i == 1 {
			continue
		}
		for _, z := range row {
			require.Equal(t, int64(1), z.Int64())
		}
	}
}

func TestMaskCardRerandomises(t *testing.T) {
	keys := testKeys(t, 2)
	c, cs, err := CreatePrivateCard(keys, 0, 3, 4)
	require.NoError(t, err)

	masked := MaskCard(c, cs, keys)
	require.NotEqual(t, c.Serialize(), masked.Serialize())
}

func TestCardSerializeRoundTrip(t *testing.T) {
	keys := testKeys(t, 2)
	c := CreateOpenCard(keys, 9, 4)
	parsed, err := ParseCard(c.Serialize())
	require.NoError(t, err)
	require.Equal(t, c.Serialize(), parsed.Serialize())
}

func TestSecretSerializeRoundTrip(t *testing.T) {
	keys := testKeys(t, 2)
	_, cs, err := CreatePrivateCard(keys, 0, 2, 4)
	require.NoError(t, err)
	parsed, err := ParseSecret(cs.Serialize())
	require.NoError(t, err)
	require.Equal(t, cs.Serialize(), parsed.Serialize())
}

func TestRowIsQR(t *testing.T) {
	sk, err := key.GenerateSecretKey("owner", "owner@example.com", 512)
	require.NoError(t, err)
	keys := []*key.PublicKey{sk.Public()}

	c, cs, err := CreatePrivateCard(keys, 0, 1, 1)
	require.NoError(t, err)
	// bit 0 is 1, so z_00 = r^2*y mod m -- must NOT be a QR.
	require.False(t, RowIsQR(c, 0, 0, sk))
	_ = cs
}

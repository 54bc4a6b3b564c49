package vtmf

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGroup(t *testing.T) *Group {
	t.Helper()
	grp, err := GenerateGroup(64)
	require.NoError(t, err)
	require.True(t, grp.Check())
	return grp
}

func TestGroupSerializeRoundTrip(t *testing.T) {
	grp := testGroup(t)
	parsed, err := ParseGroup(grp.Serialize())
	require.NoError(t, err)
	require.Equal(t, grp.P, parsed.P)
	require.Equal(t, grp.Q, parsed.Q)
	require.Equal(t, grp.G, parsed.G)
}

func TestKeyShareProof(t *testing.T) {
	grp := testGroup(t)
	ks, p := mustKeyShare(t, grp)
	require.True(t, VerifyKeyShare(grp, ks.H, p))

	// a tampered commitment must fail.
	bad := &SchnorrProof{T: new(big.Int).Add(p.T, one), Z: p.Z}
	require.False(t, VerifyKeyShare(grp, ks.H, bad))
}

func mustKeyShare(t *testing.T, grp *Group) (*KeyShare, *SchnorrProof) {
	t.Helper()
	ks, p, err := GenerateKeyShare(grp)
	require.NoError(t, err)
	return ks, p
}

func TestMaskAndReveal(t *testing.T) {
	grp := testGroup(t)
	ks1, p1 := mustKeyShare(t, grp)
	require.True(t, VerifyKeyShare(grp, ks1.H, p1))
	ks2, p2 := mustKeyShare(t, grp)
	require.True(t, VerifyKeyShare(grp, ks2.H, p2))

	vt1 := NewInstance(grp, ks1, []*big.Int{ks1.H, ks2.H})
	vt2 := NewInstance(grp, ks2, []*big.Int{ks1.H, ks2.H})
	require.Equal(t, vt1.CombinedKey, vt2.CombinedKey)

	const typ = int64(3)
	c1, c2 := vt1.EncryptType(typ, big.NewInt(7))

	share1, proof1, err := vt1.RevealShare(c1)
	require.NoError(t, err)
	require.True(t, VerifyShare(grp, c1, ks1.H, share1, proof1))

	share2, proof2, err := vt2.RevealShare(c1)
	require.NoError(t, err)
	require.True(t, VerifyShare(grp, c1, ks2.H, share2, proof2))

	decrypted := Decrypt(grp, c2, []*Share{share1, share2})
	require.NotNil(t, decrypted)
	got, err := TypeOf(grp, decrypted, 16)
	require.NoError(t, err)
	require.Equal(t, typ, got)
}

package key

import (
	"testing"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretKeyIsValid(t *testing.T) {
	sk, err := GenerateSecretKey("alice", "alice@example.com", 512)
	require.NoError(t, err)
	require.True(t, sk.Check())
	require.True(t, sk.Public().Check())
}

func TestSecretKeySerializeRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey("alice", "alice@example.com", 512)
	require.NoError(t, err)

	parsed, err := ParseSecretKey(sk.Serialize())
	require.NoError(t, err)
	require.Equal(t, sk.M, parsed.M)
	require.Equal(t, sk.Y, parsed.Y)
	require.True(t, parsed.Check())
}

func TestPublicKeySerializeRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey("bob", "bob@example.com", 512)
	require.NoError(t, err)
	pk := sk.Public()

	parsed, err := ParsePublicKey(pk.Serialize())
	require.NoError(t, err)
	require.Equal(t, pk.M, parsed.M)
	require.True(t, parsed.Check())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey("carol", "carol@example.com", 768)
	require.NoError(t, err)

	plaintext := make([]byte, constants.SAEPs0)
	for i := range plaintext {
		plaintext[i] = byte(i + 1)
	}

	ct, err := Encrypt(sk.Public(), plaintext)
	require.NoError(t, err)

	recovered, err := Decrypt(sk, ct)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey("dave", "dave@example.com", 512)
	require.NoError(t, err)

	data := []byte("hello tmcg")
	sig, err := Sign(sk, data)
	require.NoError(t, err)
	require.True(t, Verify(sk.Public(), data, sig))
	require.False(t, Verify(sk.Public(), []byte("tampered"), sig))
}

func TestCiphertextSerializeRoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey("erin", "erin@example.com", 768)
	require.NoError(t, err)
	plaintext := make([]byte, constants.SAEPs0)
	ct, err := Encrypt(sk.Public(), plaintext)
	require.NoError(t, err)

	parsed, err := ParseCiphertext(ct.Serialize())
	require.NoError(t, err)
	require.Equal(t, ct.Value, parsed.Value)
}

func TestRingOperations(t *testing.T) {
	sk1, err := GenerateSecretKey("p1", "p1@example.com", 512)
	require.NoError(t, err)
	sk2, err := GenerateSecretKey("p2", "p2@example.com", 512)
	require.NoError(t, err)

	ring := NewRing(sk1.Public(), sk2.Public())
	require.Equal(t, 2, ring.Len())
	require.Equal(t, 1, ring.Find(sk2.Public()))
	require.True(t, ring.CheckAll())
}

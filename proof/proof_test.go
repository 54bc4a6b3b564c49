package proof

import (
	"bufio"
	"io"
	"math/big"
	"testing"

	"github.com/schindelhauer/tmcg/key"
	"github.com/stretchr/testify/require"
)

const testRounds = 8

// pipePair wires a prover and verifier together over two io.Pipes, one
// per direction, and returns writer/reader pairs for each side.
func pipePair(t *testing.T) (proverW io.WriteCloser, proverR *bufio.Reader, verifierW io.WriteCloser, verifierR *bufio.Reader) {
	t.Helper()
	pw, vr := io.Pipe()
	vw, pr := io.Pipe()
	return pw, bufio.NewReader(pr), vw, bufio.NewReader(vr)
}

func testSecretKey(t *testing.T) *key.SecretKey {
	t.Helper()
	sk, err := key.GenerateSecretKey("tester", "tester@example.com", 512)
	require.NoError(t, err)
	return sk
}

func TestQuadraticResidueProof(t *testing.T) {
	sk := testSecretKey(t)
	t2 := new(big.Int).Mod(big.NewInt(49), sk.M) // a perfect square, hence QR
	t2.Mul(t2, t2)
	t2.Mod(t2, sk.M)

	proverW, proverR, verifierW, verifierR := pipePair(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- ProveQuadraticResidue(proverW, proverR, sk, t2, testRounds)
		proverW.Close()
	}()
	ok := VerifyQuadraticResidue(verifierW, verifierR, sk.Public(), t2, testRounds)
	verifierW.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}

func TestNonQuadraticResidueProof(t *testing.T) {
	sk := testSecretKey(t)

	proverW, proverR, verifierW, verifierR := pipePair(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- ProveNonQuadraticResidue(proverW, proverR, sk, testRounds)
		proverW.Close()
	}()
	ok := VerifyNonQuadraticResidue(verifierW, verifierR, sk.M, sk.Y, testRounds)
	verifierW.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}

func TestNonQuadraticResiduePZKProof(t *testing.T) {
	sk := testSecretKey(t)
	pk := sk.Public()

	proverW, proverR, verifierW, verifierR := pipePair(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- ProveNonQuadraticResiduePZK(proverW, proverR, sk, testRounds)
		proverW.Close()
	}()
	ok := VerifyNonQuadraticResiduePZK(verifierW, verifierR, pk.M, pk.Y, testRounds)
	verifierW.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}

func TestMaskOneProof(t *testing.T) {
	sk := testSecretKey(t)
	pk := sk.Public()
	r := big.NewInt(12345)
	b := 1
	zz := maskVal(one, r, b, pk.Y, pk.M)

	proverW, proverR, verifierW, verifierR := pipePair(t)
	errCh := make(chan error, 1)
	go func() {
		errCh <- ProveMaskOne(proverW, proverR, pk, r, b, testRounds)
		proverW.Close()
	}()
	ok := VerifyMaskOne(verifierW, verifierR, pk, zz, testRounds)
	verifierW.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}

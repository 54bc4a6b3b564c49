package key

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/sqrt"
	"github.com/schindelhauer/tmcg/wire"
)

// SecretKey is a Schindelhauer key pair: the safe-prime factorisation of m,
// the non-residue witness y, the NIZK bundle proving their joint structure,
// and the self-signature. Precomputed shortcuts are derived on construction
// and on import, never mutated afterwards (spec.md §3's SecretKey
// invariant).
type SecretKey struct {
	Name, Email, Type string
	M, Y, P, Q        *big.Int
	NIZK              *NIZK
	Sig               string

	pre precomputed
}

type precomputed struct {
	yInv       *big.Int
	mInvPhi    *big.Int
	up, vq     *big.Int
	pPlus1Div4 *big.Int
	qPlus1Div4 *big.Int
}

// TypeTag returns the wire type field, `TMCG/RABIN_<keysize>_NIZK`.
func TypeTag(keysize int) string {
	return fmt.Sprintf("TMCG/RABIN_%d_NIZK", keysize)
}

// GenerateSecretKey samples a fresh Schindelhauer key of the given modulus
// bit length: two safe primes p≡q≡3 (mod 4), p≢q (mod 8), a Blum modulus
// m=pq, a non-residue witness y, the NIZK bundle, and a self-signature.
func GenerateSecretKey(name, email string, keysize int) (*SecretKey, error) {
	half := keysize/2 + 1
	var p, q *big.Int
	for {
		var err error
		p, err = mpint.GenerateSafePrime(half, constants.PrimalityReps)
		if err != nil {
			return nil, err
		}
		q, err = mpint.GenerateSafePrime(half, constants.PrimalityReps)
		if err != nil {
			return nil, err
		}
		if p.Cmp(q) == 0 {
			continue
		}
		pm8 := new(big.Int).Mod(p, big.NewInt(8))
		qm8 := new(big.Int).Mod(q, big.NewInt(8))
		if pm8.Cmp(qm8) == 0 {
			continue
		}
		break
	}
	m := new(big.Int).Mul(p, q)

	y, err := findNonResidueWitness(m, p, q)
	if err != nil {
		return nil, err
	}

	sk := &SecretKey{
		Name:  name,
		Email: email,
		Type:  TypeTag(keysize),
		M:     m,
		Y:     y,
		P:     p,
		Q:     q,
		NIZK:  ProveNIZK(m, y, p, q),
	}
	sk.finalise()
	if err := sk.selfSign(); err != nil {
		return nil, err
	}
	return sk, nil
}

// findNonResidueWitness searches (weak tier: the output is subsequently
// checked) for an element of Z°_m that is a non-residue mod both primes.
func findNonResidueWitness(m, p, q *big.Int) (*big.Int, error) {
	one := big.NewInt(1)
	upper := new(big.Int).Sub(m, one)
	for {
		cand, err := mpint.WeakRandomNumber(big.NewInt(2), upper)
		if err != nil {
			return nil, err
		}
		if mpint.InverseMod(cand, m) == nil {
			continue
		}
		if big.Jacobi(cand, m) != 1 {
			continue
		}
		if sqrt.QRMN(cand, p, q) {
			continue
		}
		return cand, nil
	}
}

// finalise derives the pure-function shortcuts from (m,y,p,q). It is called
// both by GenerateSecretKey and by ParseSecretKey (the builder's "finalise
// step" described in spec.md §9).
func (sk *SecretKey) finalise() {
	phi := new(big.Int).Mul(new(big.Int).Sub(sk.P, one), new(big.Int).Sub(sk.Q, one))
	sk.pre.yInv = new(big.Int).ModInverse(sk.Y, sk.M)
	sk.pre.mInvPhi = new(big.Int).ModInverse(sk.M, phi)
	u := new(big.Int).ModInverse(sk.P, sk.Q)
	v := new(big.Int).ModInverse(sk.Q, sk.P)
	if u == nil {
		u = big.NewInt(0)
	}
	if v == nil {
		v = big.NewInt(0)
	}
	sk.pre.up = new(big.Int).Mul(u, sk.P)
	sk.pre.vq = new(big.Int).Mul(v, sk.Q)
	sk.pre.pPlus1Div4 = new(big.Int).Rsh(new(big.Int).Add(sk.P, one), 2)
	sk.pre.qPlus1Div4 = new(big.Int).Rsh(new(big.Int).Add(sk.Q, one), 2)
}

// YInverse returns the precomputed y^-1 mod m.
func (sk *SecretKey) YInverse() *big.Int { return sk.pre.yInv }

// MInversePhi returns the precomputed m^-1 mod φ(m).
func (sk *SecretKey) MInversePhi() *big.Int { return sk.pre.mInvPhi }

// CRTShortcuts returns (u·p, v·q, (p+1)/4, (q+1)/4) used by the fast Blum
// square-root path.
func (sk *SecretKey) CRTShortcuts() (up, vq, pPlus1Div4, qPlus1Div4 *big.Int) {
	return sk.pre.up, sk.pre.vq, sk.pre.pPlus1Div4, sk.pre.qPlus1Div4
}

// Public derives the PublicKey view of this secret key.
func (sk *SecretKey) Public() *PublicKey {
	return &PublicKey{
		Name:  sk.Name,
		Email: sk.Email,
		Type:  sk.Type,
		M:     sk.M,
		Y:     sk.Y,
		NIZK:  sk.NIZK,
		Sig:   sk.Sig,
	}
}

// identityHash is the input to the self-signature: name|email|type|m|y|nizk|
func (sk *SecretKey) identityHash() string {
	w := wire.NewWriter("", '|')
	w.Str(sk.Name)
	w.Str(sk.Email)
	w.Str(sk.Type)
	w.Int(sk.M)
	w.Int(sk.Y)
	w.Raw(sk.NIZK.Serialize())
	return strings.TrimSuffix(w.String(), "\n")
}

// selfSign computes the Rabin signature over the key's own identity hash,
// then rewrites the IDK^ placeholder key id with the last KeyIDSize hex
// characters of the signature itself.
func (sk *SecretKey) selfSign() error {
	sk.Sig = "IDK^"
	sig, err := Sign(sk, []byte(sk.identityHash()))
	if err != nil {
		return err
	}
	kid := keyIDFromSignature(sig)
	sk.Sig = sig.WithKeyID(kid).Serialize()
	return nil
}

func keyIDFromSignature(sig *Signature) string {
	h := sigHexDigest(sig.Value)
	if len(h) <= constants.KeyIDSize {
		return h
	}
	return h[len(h)-constants.KeyIDSize:]
}

func sigHexDigest(v *big.Int) string {
	return fmt.Sprintf("%x", v)
}

// Check validates the secret key: structural soundness of m, well-formedness
// of the NIZK bundle, and the self-signature (spec.md §4.2's check
// procedure).
func (sk *SecretKey) Check() bool {
	return checkStructure(sk.M, sk.Y, sk.P, sk.Q) &&
		VerifyNIZK(sk.NIZK, sk.M, sk.Y) &&
		VerifySelfSignature(sk.Public())
}

func checkStructure(m, y, p, q *big.Int) bool {
	if m.Bit(0) == 0 {
		return false
	}
	if big.Jacobi(y, m) != 1 {
		return false
	}
	if m.ProbablyPrime(constants.PrimalityReps) {
		return false
	}
	if isFermatPrime(m) {
		return false
	}
	if p != nil && q != nil {
		if new(big.Int).Mul(p, q).Cmp(m) != 0 {
			return false
		}
	}
	return true
}

// isFermatPrime detects m = 2^(2^k)+1 and runs Pépin's test on base 5.
func isFermatPrime(m *big.Int) bool {
	mMinus1 := new(big.Int).Sub(m, one)
	if mMinus1.BitLen() == 0 {
		return false
	}
	// m-1 must itself be a power of two.
	bitLen := mMinus1.BitLen()
	pow2 := new(big.Int).Lsh(one, uint(bitLen-1))
	if mMinus1.Cmp(pow2) != 0 {
		return false
	}
	k := bitLen - 1
	// k must be a power of two for m to be of Fermat form 2^(2^j)+1.
	if k == 0 || k&(k-1) != 0 {
		return false
	}
	// Pépin's test: m is prime iff 5^((m-1)/2) ≡ -1 (mod m).
	exp := new(big.Int).Rsh(mMinus1, 1)
	r := new(big.Int).Exp(big.NewInt(5), exp, m)
	negOne := new(big.Int).Sub(m, one)
	return r.Cmp(negOne) == 0
}

// Serialize renders the key as `sec|name|email|type|m|y|p|q|nizk|sig`.
func (sk *SecretKey) Serialize() string {
	w := wire.NewWriter("sec|", '|')
	w.Str(sk.Name)
	w.Str(sk.Email)
	w.Str(sk.Type)
	w.Int(sk.M)
	w.Int(sk.Y)
	w.Int(sk.P)
	w.Int(sk.Q)
	w.Raw(sk.NIZK.Serialize())
	w.Str(sk.Sig)
	return w.String()
}

// ParseSecretKey parses and finalises a `sec|…` record.
func ParseSecretKey(line string) (*SecretKey, error) {
	line = strings.TrimSuffix(line, "\n")
	magicEnd := 4
	if len(line) < magicEnd || line[:magicEnd] != "sec|" {
		return nil, wire.ErrMalformed
	}
	nzkIdx := strings.Index(line, "nzk^")
	if nzkIdx < 0 {
		return nil, wire.ErrMalformed
	}
	head, err := wire.ParseRecord(line[:nzkIdx], "sec|", '|')
	if err != nil {
		return nil, err
	}
	sk := &SecretKey{}
	if sk.Name, err = head.Str(); err != nil {
		return nil, err
	}
	if sk.Email, err = head.Str(); err != nil {
		return nil, err
	}
	if sk.Type, err = head.Str(); err != nil {
		return nil, err
	}
	if sk.M, err = head.Int(); err != nil {
		return nil, err
	}
	if sk.Y, err = head.Int(); err != nil {
		return nil, err
	}
	if sk.P, err = head.Int(); err != nil {
		return nil, err
	}
	if sk.Q, err = head.Int(); err != nil {
		return nil, err
	}
	if !head.Done() {
		return nil, wire.ErrMalformed
	}

	tail := line[nzkIdx:]
	sigIdx := strings.LastIndexByte(tail, '^')
	if sigIdx < 0 {
		return nil, wire.ErrMalformed
	}
	nzkLine := tail[:sigIdx+1]
	sk.NIZK, err = ParseNIZK(nzkLine)
	if err != nil {
		return nil, err
	}
	sigField := tail[sigIdx+1:]
	sigField = strings.TrimSuffix(sigField, "|")
	sk.Sig = sigField

	sk.finalise()
	return sk, nil
}

// hashDataForSign is H in spec.md §4.3.
func hashDataForSign(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

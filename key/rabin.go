package key

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/sqrt"
	"github.com/schindelhauer/tmcg/wire"
)

// Ciphertext is a Rabin/SAEP ciphertext: `enc|keyId|value|`.
type Ciphertext struct {
	KeyID string
	Value *big.Int
}

// Signature is a Rabin/PRab signature: `sig|keyId|value|`.
type Signature struct {
	KeyID string
	Value *big.Int
}

// WithKeyID returns a copy of sig with KeyID replaced, used to rewrite the
// `IDK^` placeholder during self-signing.
func (s *Signature) WithKeyID(id string) *Signature {
	return &Signature{KeyID: id, Value: s.Value}
}

// Serialize renders the signature as `sig|keyId|value|`.
func (s *Signature) Serialize() string {
	w := wire.NewWriter("sig|", '|')
	w.Str(s.KeyID)
	w.Int(s.Value)
	return trimNL(w.String())
}

// ParseSignature parses a `sig|keyId|value|` record.
func ParseSignature(line string) (*Signature, error) {
	r, err := wire.ParseRecord(line, "sig|", '|')
	if err != nil {
		return nil, err
	}
	s := &Signature{}
	if s.KeyID, err = r.Str(); err != nil {
		return nil, err
	}
	if s.Value, err = r.Int(); err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return s, nil
}

// Serialize renders the ciphertext as `enc|keyId|value|`.
func (c *Ciphertext) Serialize() string {
	w := wire.NewWriter("enc|", '|')
	w.Str(c.KeyID)
	w.Int(c.Value)
	return trimNL(w.String())
}

// ParseCiphertext parses an `enc|keyId|value|` record.
func ParseCiphertext(line string) (*Ciphertext, error) {
	r, err := wire.ParseRecord(line, "enc|", '|')
	if err != nil {
		return nil, err
	}
	c := &Ciphertext{}
	if c.KeyID, err = r.Str(); err != nil {
		return nil, err
	}
	if c.Value, err = r.Int(); err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return c, nil
}

func trimNL(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\n' {
		return s[:len(s)-1]
	}
	return s
}

// G is the iterated hash expansion used by both SAEP padding and the PRab
// signature scheme: a counter-mode SHA-256 stream salted by its input,
// grounded on spec.md §4.3's requirement that G behave as a random oracle
// under arbitrary-length expansion, and following the original
// implementation's direct seed→expand shape (libTMCG's `g()` helper) rather
// than the teacher's HKDF (HKDF's extract phase buys nothing here since the
// seed is already high-entropy).
func G(seed []byte, outLen int) []byte {
	out := make([]byte, 0, outLen+sha256.Size)
	var counter uint32
	for len(out) < outLen {
		h := sha256.New()
		h.Write(seed)
		var cbuf [4]byte
		cbuf[0] = byte(counter)
		cbuf[1] = byte(counter >> 8)
		cbuf[2] = byte(counter >> 16)
		cbuf[3] = byte(counter >> 24)
		h.Write(cbuf[:])
		out = append(out, h.Sum(nil)...)
		counter++
	}
	return out[:outLen]
}

func xorBytes(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func keyID(pk *PublicKey) string {
	sig, err := ParseSignature(pk.Sig)
	if err != nil {
		return ""
	}
	return sig.KeyID
}

// blockLen is the byte length of a SAEP or PRab block under modulus m: the
// largest whole number of bytes whose value is always below m.
func blockLen(m *big.Int) int {
	return (m.BitLen() - 1) / 8
}

// Encrypt pads plaintext (exactly SAEPs0 bytes) with SAEP and applies the
// Rabin trapdoor: ciphertext = (Mt || r)^2 mod m.
func Encrypt(pk *PublicKey, plaintext []byte) (*Ciphertext, error) {
	if len(plaintext) != constants.SAEPs0 {
		return nil, fmt.Errorf("key: plaintext must be %d bytes", constants.SAEPs0)
	}
	mBytes := blockLen(pk.M)
	s2 := constants.SAEPs2
	s1 := mBytes - s2
	if s1 <= s2 {
		return nil, fmt.Errorf("key: modulus too small for SAEP")
	}

	r := make([]byte, s1)
	if err := mpint.StrongRandomBytes(r); err != nil {
		return nil, err
	}

	mt := make([]byte, s2)
	copy(mt, plaintext)
	g12 := G(r, s2)
	mt = xorBytes(mt, g12)

	preimage := append(append([]byte{}, mt...), r...)
	v := new(big.Int).SetBytes(preimage)
	v.Mul(v, v)
	v.Mod(v, pk.M)

	return &Ciphertext{KeyID: keyID(pk), Value: v}, nil
}

// Decrypt computes the four square roots of c.Value and returns the
// plaintext recovered from whichever root's trailing SAEPs0 zero bytes
// confirm correct decryption.
func Decrypt(sk *SecretKey, c *Ciphertext) ([]byte, error) {
	mBytes := blockLen(sk.M)
	s0 := constants.SAEPs0
	s2 := constants.SAEPs2
	s1 := mBytes - s2

	roots := sqrt.Roots(c.Value, sk.P, sk.Q, sk.M)
	if roots == nil {
		return nil, fmt.Errorf("key: ciphertext is not a quadratic residue")
	}
	for _, root := range roots {
		buf := root.Bytes()
		if len(buf) < mBytes {
			buf = append(make([]byte, mBytes-len(buf)), buf...)
		} else if len(buf) > mBytes {
			continue
		}
		mt := buf[:s2]
		r := buf[s2 : s2+s1]
		g12 := G(r, s2)
		cand := xorBytes(mt, g12)
		if allZero(cand[s0:]) {
			return cand[:s0], nil
		}
	}
	return nil, fmt.Errorf("key: no root decrypted to a valid plaintext")
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Sign computes a Bellare-Rogaway PRab signature over data.
func Sign(sk *SecretKey, data []byte) (*Signature, error) {
	mBytes := blockLen(sk.M)
	mdSize := sha256.Size
	k0 := constants.SignK0

	for attempt := 0; attempt < 4096; attempt++ {
		r := make([]byte, k0)
		if err := mpint.StrongRandomBytes(r); err != nil {
			return nil, err
		}
		w := hashDataForSign(append(append([]byte{}, data...), r...))
		g12 := G(w, mBytes-mdSize)
		rXor := xorBytes(r, g12[:k0])
		gamma := g12[k0:]

		preimage := make([]byte, 0, mBytes)
		preimage = append(preimage, w...)
		preimage = append(preimage, rXor...)
		preimage = append(preimage, gamma...)

		cand := new(big.Int).SetBytes(preimage)
		if !sqrt.QRMN(cand, sk.P, sk.Q) {
			continue
		}
		roots := sqrt.Roots(cand, sk.P, sk.Q, sk.M)
		if roots == nil {
			continue
		}
		choice, err := mpint.StrongRandomNumber(big.NewInt(0), big.NewInt(3))
		if err != nil {
			return nil, err
		}
		root := roots[choice.Int64()]
		return &Signature{KeyID: "IDK^", Value: root}, nil
	}
	return nil, fmt.Errorf("key: failed to find a signable preimage")
}

// Verify checks a PRab signature against data under pk.
func Verify(pk *PublicKey, data []byte, sig *Signature) bool {
	mBytes := blockLen(pk.M)
	mdSize := sha256.Size
	k0 := constants.SignK0
	if mBytes <= mdSize+k0 {
		return false
	}

	sq := new(big.Int).Mul(sig.Value, sig.Value)
	sq.Mod(sq, pk.M)
	buf := sq.Bytes()
	if len(buf) < mBytes {
		buf = append(make([]byte, mBytes-len(buf)), buf...)
	} else if len(buf) > mBytes {
		return false
	}
	w := buf[:mdSize]
	rXor := buf[mdSize : mdSize+k0]
	gamma := buf[mdSize+k0:]

	g12 := G(w, mBytes-mdSize)
	r := xorBytes(rXor, g12[:k0])
	w2 := hashDataForSign(append(append([]byte{}, data...), r...))

	return bytesEqual(w, w2) && bytesEqual(gamma, g12[k0:])
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

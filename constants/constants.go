// Package constants collects the compile-time-configurable limits named in
// spec.md §6. All are variables rather than untyped consts so a host
// process may override them at startup (e.g. from config.Config) before any
// key material is generated.
package constants

// MaxPlayers bounds the number of seats in a PublicKeyRing.
var MaxPlayers = 64

// MaxTypeBits bounds the width w of a card's type encoding.
var MaxTypeBits = 8

// MaxCards bounds the number of cards in a Stack or OpenStack.
var MaxCards = 128

// MaxStackChars bounds the serialised length of a stk^/sts^ record.
var MaxStackChars = 1 << 20

// KeySize is TMCG_KEY_SIZE, the default Schindelhauer modulus bit length.
var KeySize = 1024

// KeyIDSize is TMCG_KEYID_SIZE: the key id is the last KeyIDSize hex
// characters of the self-signature's integer representation (spec.md §9,
// resolving the "Open question" there in favour of K=32).
var KeyIDSize = 32

// SecurityLevel is TMCG_SecurityLevel, the number of parallel Σ-protocol
// rounds run for every interactive proof.
var SecurityLevel = 16

// NIZKStage1Rounds is S1 in the key-generation NIZK (square-free modulus),
// minimum 16 per spec.md §4.2.
var NIZKStage1Rounds = 16

// NIZKStage2Rounds is S2 (prime-power-product modulus), minimum 128.
var NIZKStage2Rounds = 128

// NIZKStage3Rounds is S3 (y is a non-residue), minimum 128.
var NIZKStage3Rounds = 128

// MPZIOBase is TMCG_MPZ_IO_BASE, the base used for the wire grammar's
// integer fields.
const MPZIOBase = 36

// PrimalityReps is the number of Miller-Rabin rounds used for every
// probabilistic primality test in the package.
const PrimalityReps = 64

// SAEPs0 is the s0 parameter of Rabin/SAEP padding: the number of trailing
// zero bytes that identify a correct decryption.
const SAEPs0 = 20

// SAEPs2 is the s2 parameter of Rabin/SAEP padding: the byte length of the
// padded plaintext block Mt (= 2*SAEPs0, per the original implementation's
// rabin_s2 = 2*rabin_s0 — spec.md's literal "s0 = s2 = 20" is internally
// inconsistent, since it would leave no room for the s0 zero-padding bytes).
const SAEPs2 = 2 * SAEPs0

// SignK0 is k0 in the Bellare-Rogaway PRab signature scheme: the byte
// length of the signature's random salt r.
const SignK0 = 20

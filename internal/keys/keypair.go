package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Signature schemes supported for operator keys.
const (
	SchemeEd25519   = "ed25519"
	SchemeSecp256k1 = "secp256k1"
)

// Scheme flag bytes, prepended to the public key for address derivation
// and to the signature for serialization.
const (
	flagEd25519   byte = 0x00
	flagSecp256k1 byte = 0x01
)

// ErrInvalidKey reports unusable private key material.
var ErrInvalidKey = errors.New("invalid private key")

// Keypair holds one operator signing identity.
type Keypair struct {
	scheme string
	priv   []byte // ed25519 seed or secp256k1 scalar, 32 bytes
	pub    []byte // ed25519 32 bytes, secp256k1 compressed 33 bytes
}

// Generate creates a fresh keypair for the given scheme.
func Generate(scheme string) (*Keypair, error) {
	switch scheme {
	case SchemeEd25519:
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generating ed25519 seed: %w", err)
		}
		return fromEd25519Seed(seed)
	case SchemeSecp256k1:
		priv, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generating secp256k1 key: %w", err)
		}
		return fromSecp256k1Scalar(crypto.FromECDSA(priv))
	default:
		return nil, fmt.Errorf("unknown signature scheme %q", scheme)
	}
}

// FromHex rebuilds a keypair from 32 hex-encoded private key bytes.
func FromHex(scheme, hexKey string) (*Keypair, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: want 32 bytes, got %d", ErrInvalidKey, len(raw))
	}
	switch scheme {
	case SchemeEd25519:
		return fromEd25519Seed(raw)
	case SchemeSecp256k1:
		return fromSecp256k1Scalar(raw)
	default:
		return nil, fmt.Errorf("unknown signature scheme %q", scheme)
	}
}

func fromEd25519Seed(seed []byte) (*Keypair, error) {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])
	return &Keypair{scheme: SchemeEd25519, priv: seed, pub: pub}, nil
}

func fromSecp256k1Scalar(scalar []byte) (*Keypair, error) {
	priv, err := crypto.ToECDSA(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Keypair{
		scheme: SchemeSecp256k1,
		priv:   scalar,
		pub:    crypto.CompressPubkey(&priv.PublicKey),
	}, nil
}

// Scheme returns the keypair's signature scheme name.
func (k *Keypair) Scheme() string { return k.scheme }

// PrivateKeyHex returns the 0x-prefixed private key material.
func (k *Keypair) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(k.priv)
}

// PublicKeyBase64 returns the scheme-flagged public key, base64 encoded.
func (k *Keypair) PublicKeyBase64() string {
	return base64.StdEncoding.EncodeToString(append([]byte{k.flag()}, k.pub...))
}

// Address derives the Sui address: blake2b-256 over flag‖pubkey.
func (k *Keypair) Address() string {
	digest := blake2b.Sum256(append([]byte{k.flag()}, k.pub...))
	return "0x" + hex.EncodeToString(digest[:])
}

// SignTransaction signs base64 transaction bytes under the transaction
// signing intent and returns the serialized signature
// base64(flag‖sig‖pubkey) expected by the execution endpoint.
func (k *Keypair) SignTransaction(txBytesB64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(txBytesB64)
	if err != nil {
		return "", fmt.Errorf("decoding transaction bytes: %w", err)
	}

	// Intent scope TransactionData, version 0, app id 0.
	intentMsg := append([]byte{0, 0, 0}, txBytes...)
	digest := blake2b.Sum256(intentMsg)

	var sig []byte
	switch k.scheme {
	case SchemeEd25519:
		sig = ed25519.Sign(ed25519.NewKeyFromSeed(k.priv), digest[:])
	case SchemeSecp256k1:
		priv, err := crypto.ToECDSA(k.priv)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		hashed := sha256.Sum256(digest[:])
		full, err := crypto.Sign(hashed[:], priv)
		if err != nil {
			return "", fmt.Errorf("signing transaction: %w", err)
		}
		sig = full[:64] // drop the recovery byte
	default:
		return "", fmt.Errorf("unknown signature scheme %q", k.scheme)
	}

	serialized := append([]byte{k.flag()}, sig...)
	serialized = append(serialized, k.pub...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}

func (k *Keypair) flag() byte {
	if k.scheme == SchemeSecp256k1 {
		return flagSecp256k1
	}
	return flagEd25519
}

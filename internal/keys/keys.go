// Package keys provides the signing keys accepted by the mutation builder.
//
// Supported key types:
//   - ed25519 (default)
//   - dilithium3 (post-quantum, via cloudflare/circl)
//
// Keys are loaded from small YAML files holding a hex seed. Key material is
// handed to the caller and never cached here.
package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"gopkg.in/yaml.v3"

	"github.com/roach88/arwiki/internal/ledger"
)

// Key types.
const (
	TypeEd25519    = "ed25519"
	TypeDilithium3 = "dilithium3"
)

// File is the on-disk key format.
type File struct {
	Type   string `yaml:"type"`
	Seed   string `yaml:"seed"`
	Digest string `yaml:"digest,omitempty"`
}

// Ed25519Signer signs transaction digests with an ed25519 key.
type Ed25519Signer struct {
	priv   ed25519.PrivateKey
	digest string
}

// NewEd25519Signer derives a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte, digestAlg string) (*Ed25519Signer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519 seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Ed25519Signer{priv: ed25519.NewKeyFromSeed(seed), digest: digestAlg}, nil
}

func (s *Ed25519Signer) KeyType() string { return TypeEd25519 }

func (s *Ed25519Signer) PublicKey() []byte {
	return []byte(s.priv.Public().(ed25519.PublicKey))
}

func (s *Ed25519Signer) DigestAlg() string { return s.digest }

func (s *Ed25519Signer) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, digest), nil
}

// Dilithium3Signer signs transaction digests with a Dilithium mode3 key.
type Dilithium3Signer struct {
	pub    *mode3.PublicKey
	priv   *mode3.PrivateKey
	digest string
}

// NewDilithium3Signer derives a signer from a mode3.SeedSize seed.
func NewDilithium3Signer(seed []byte, digestAlg string) (*Dilithium3Signer, error) {
	if len(seed) != mode3.SeedSize {
		return nil, fmt.Errorf("dilithium3 seed must be %d bytes, got %d", mode3.SeedSize, len(seed))
	}
	var buf [mode3.SeedSize]byte
	copy(buf[:], seed)
	pub, priv := mode3.NewKeyFromSeed(&buf)
	return &Dilithium3Signer{pub: pub, priv: priv, digest: digestAlg}, nil
}

func (s *Dilithium3Signer) KeyType() string { return TypeDilithium3 }

func (s *Dilithium3Signer) PublicKey() []byte { return s.pub.Bytes() }

func (s *Dilithium3Signer) DigestAlg() string { return s.digest }

func (s *Dilithium3Signer) Sign(digest []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, errors.New("missing private key")
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.priv, digest, sig)
	return sig, nil
}

// Verify checks sig over digest for a public key of the given type.
func Verify(keyType string, publicKey, digest, sig []byte) error {
	switch keyType {
	case TypeEd25519:
		if len(publicKey) != ed25519.PublicKeySize {
			return fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
		}
		if !ed25519.Verify(ed25519.PublicKey(publicKey), digest, sig) {
			return errors.New("invalid ed25519 signature")
		}
		return nil
	case TypeDilithium3:
		if len(publicKey) != mode3.PublicKeySize {
			return fmt.Errorf("dilithium3 public key must be %d bytes, got %d", mode3.PublicKeySize, len(publicKey))
		}
		var buf [mode3.PublicKeySize]byte
		copy(buf[:], publicKey)
		var pk mode3.PublicKey
		pk.Unpack(&buf)
		if !mode3.Verify(&pk, digest, sig) {
			return errors.New("invalid dilithium3 signature")
		}
		return nil
	default:
		return fmt.Errorf("unsupported key type: %q", keyType)
	}
}

// FromFile builds a signer from a decoded key file.
func FromFile(f File) (ledger.Signer, error) {
	seed, err := hex.DecodeString(f.Seed)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	switch f.Type {
	case TypeEd25519, "":
		return NewEd25519Signer(seed, f.Digest)
	case TypeDilithium3:
		return NewDilithium3Signer(seed, f.Digest)
	default:
		return nil, fmt.Errorf("unsupported key type: %q", f.Type)
	}
}

// Load reads a YAML key file.
func Load(path string) (ledger.Signer, error) {
	if path == "" {
		return nil, errors.New("key path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	return FromFile(f)
}

// Generate creates a key file with a fresh seed read from rand.
func Generate(keyType, digestAlg string, rand io.Reader) (File, error) {
	var size int
	switch keyType {
	case TypeEd25519, "":
		keyType = TypeEd25519
		size = ed25519.SeedSize
	case TypeDilithium3:
		size = mode3.SeedSize
	default:
		return File{}, fmt.Errorf("unsupported key type: %q", keyType)
	}
	seed := make([]byte, size)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return File{}, fmt.Errorf("read seed: %w", err)
	}
	return File{Type: keyType, Seed: hex.EncodeToString(seed), Digest: digestAlg}, nil
}

// Save writes f as YAML with owner-only permissions.
func Save(path string, f File) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode key file: %w", err)
	}
	return os.WriteFile(path, b, 0o600)
}

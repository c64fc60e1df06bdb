package ledger

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// DomainTransaction separates transaction signing digests from any other
// hash computed over the same bytes.
const DomainTransaction = "arwiki/tx/v1"

// Digest algorithms accepted in SignedTransaction.DigestAlg.
const (
	DigestSHA256  = "sha256"
	DigestSHA3256 = "sha3-256"
)

// Draft is an unsigned transaction.
type Draft struct {
	Tags   Tags
	Data   []byte
	Target string

	// Anchor is a caller-chosen nonce covered by the signature. Two drafts
	// differing only in anchor produce different transaction ids.
	Anchor string
}

// SignedTransaction is a Draft bound to an owner key and signature.
type SignedTransaction struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	OwnerKey  []byte `json:"owner_key"`
	KeyType   string `json:"key_type"`
	DigestAlg string `json:"digest_alg"`
	Tags      Tags   `json:"tags"`
	Data      []byte `json:"data"`
	Target    string `json:"target,omitempty"`
	Anchor    string `json:"anchor,omitempty"`
	Signature []byte `json:"signature"`
}

// Signer holds private key material. The core passes it straight through to
// Sign and never stores it.
type Signer interface {
	KeyType() string
	PublicKey() []byte
	DigestAlg() string
	Sign(digest []byte) ([]byte, error)
}

// Address derives the owner address of a public key: base64url(sha256(key)).
func Address(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// TxID derives a transaction id from its signature: base64url(sha256(sig)).
func TxID(signature []byte) string {
	sum := sha256.Sum256(signature)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// SigningPayload returns the canonical JSON bytes covered by the signature.
func SigningPayload(tx *SignedTransaction) ([]byte, error) {
	tags := make([]any, len(tx.Tags))
	for i, tag := range tx.Tags {
		tags[i] = map[string]any{"name": tag.Name, "value": tag.Value}
	}
	obj := map[string]any{
		"owner":      base64.RawURLEncoding.EncodeToString(tx.OwnerKey),
		"key_type":   tx.KeyType,
		"digest_alg": tx.DigestAlg,
		"tags":       tags,
		"data":       base64.RawURLEncoding.EncodeToString(tx.Data),
		"target":     tx.Target,
		"anchor":     tx.Anchor,
	}
	payload, err := MarshalCanonical(obj)
	if err != nil {
		return nil, fmt.Errorf("signing payload: %w", err)
	}
	return payload, nil
}

// Digest hashes data with domain separation: H(domain || 0x00 || data).
func Digest(alg string, data []byte) ([]byte, error) {
	msg := make([]byte, 0, len(DomainTransaction)+1+len(data))
	msg = append(msg, DomainTransaction...)
	msg = append(msg, 0x00)
	msg = append(msg, data...)

	switch alg {
	case DigestSHA256, "":
		sum := sha256.Sum256(msg)
		return sum[:], nil
	case DigestSHA3256:
		sum := sha3.Sum256(msg)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm: %q", alg)
	}
}

// SigningDigest returns the digest a signer must sign for tx.
func SigningDigest(tx *SignedTransaction) ([]byte, error) {
	payload, err := SigningPayload(tx)
	if err != nil {
		return nil, err
	}
	return Digest(tx.DigestAlg, payload)
}

// Sign binds draft to signer and computes the transaction id.
func Sign(draft Draft, signer Signer) (*SignedTransaction, error) {
	if signer == nil {
		return nil, errors.New("missing signer")
	}
	pub := signer.PublicKey()
	if len(pub) == 0 {
		return nil, errors.New("signer has no public key")
	}
	alg := signer.DigestAlg()
	if alg == "" {
		alg = DigestSHA256
	}

	tx := &SignedTransaction{
		Owner:     Address(pub),
		OwnerKey:  pub,
		KeyType:   signer.KeyType(),
		DigestAlg: alg,
		Tags:      append(Tags(nil), draft.Tags...),
		Data:      append([]byte(nil), draft.Data...),
		Target:    draft.Target,
		Anchor:    draft.Anchor,
	}

	digest, err := SigningDigest(tx)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	tx.Signature = sig
	tx.ID = TxID(sig)
	return tx, nil
}

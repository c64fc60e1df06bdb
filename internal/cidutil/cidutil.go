// Package cidutil derives content identifiers for transaction payloads.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// VerifyRaw reports whether root is the CIDv1 of data.
func VerifyRaw(root string, data []byte) (bool, error) {
	want, err := cid.Decode(root)
	if err != nil {
		return false, err
	}
	got, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return false, err
	}
	return want.Equals(got), nil
}

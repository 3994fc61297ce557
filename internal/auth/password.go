package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Hash algorithm and encoding identifiers accepted by NewHasher.
const (
	AlgoSHA256  = "sha256"
	AlgoSHA512  = "sha512"
	AlgoSHA3256 = "sha3-256"

	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

// Hasher computes keyed one-way digests of passwords. The same server-held
// key is used for every account; verification recomputes the digest and
// compares, never decrypts.
type Hasher struct {
	key      []byte
	newHash  func() hash.Hash
	encode   func([]byte) string
	algo     string
	encoding string
}

// NewHasher builds a hasher for the configured digest algorithm and output
// encoding.
func NewHasher(secret, algo, encoding string) (*Hasher, error) {
	h := &Hasher{key: []byte(secret), algo: algo, encoding: encoding}

	switch algo {
	case AlgoSHA256:
		h.newHash = sha256.New
	case AlgoSHA512:
		h.newHash = sha512.New
	case AlgoSHA3256:
		h.newHash = sha3.New256
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
	}

	switch encoding {
	case EncodingHex:
		h.encode = hex.EncodeToString
	case EncodingBase64:
		h.encode = base64.StdEncoding.EncodeToString
	default:
		return nil, fmt.Errorf("unsupported hash encoding %q", encoding)
	}

	return h, nil
}

// Hash returns the encoded keyed digest of plain.
func (h *Hasher) Hash(plain string) string {
	mac := hmac.New(h.newHash, h.key)
	mac.Write([]byte(plain))
	return h.encode(mac.Sum(nil))
}

// Matches recomputes the digest of plain and compares it to the stored one
// in constant time.
func (h *Hasher) Matches(plain, digest string) bool {
	return hmac.Equal([]byte(h.Hash(plain)), []byte(digest))
}

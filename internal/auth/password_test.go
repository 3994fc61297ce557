package auth

import "testing"

func TestHasher_MatchesOwnDigest(t *testing.T) {
	t.Parallel()

	for _, algo := range []string{AlgoSHA256, AlgoSHA512, AlgoSHA3256} {
		for _, enc := range []string{EncodingHex, EncodingBase64} {
			hasher, err := NewHasher("server-key", algo, enc)
			if err != nil {
				t.Fatalf("NewHasher(%s,%s): %v", algo, enc, err)
			}
			digest := hasher.Hash("@Abc12345")
			if !hasher.Matches("@Abc12345", digest) {
				t.Fatalf("%s/%s: digest of own input must match", algo, enc)
			}
			if hasher.Matches("@Abc12346", digest) {
				t.Fatalf("%s/%s: different plaintext must not match", algo, enc)
			}
		}
	}
}

func TestHasher_Deterministic(t *testing.T) {
	t.Parallel()

	hasher, err := NewHasher("server-key", AlgoSHA256, EncodingHex)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if hasher.Hash("secret") != hasher.Hash("secret") {
		t.Fatalf("hash must be deterministic for a fixed key")
	}
}

func TestHasher_KeyChangesDigest(t *testing.T) {
	t.Parallel()

	a, _ := NewHasher("key-a", AlgoSHA256, EncodingHex)
	b, _ := NewHasher("key-b", AlgoSHA256, EncodingHex)
	if a.Hash("secret") == b.Hash("secret") {
		t.Fatalf("different keys must produce different digests")
	}
	if b.Matches("secret", a.Hash("secret")) {
		t.Fatalf("digest from another key must not match")
	}
}

func TestNewHasher_RejectsUnknownConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewHasher("k", "md5", EncodingHex); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	if _, err := NewHasher("k", AlgoSHA256, "base32"); err == nil {
		t.Fatalf("expected error for unsupported encoding")
	}
}

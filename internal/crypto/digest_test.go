package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestDigestHex(t *testing.T) {
	got := DigestHex([]byte("hello"))

	sum := sha256.Sum256([]byte("hello"))
	want := hex.EncodeToString(sum[:])

	if got != want {
		t.Fatalf("digest mismatch: %s vs %s", got, want)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(got))
	}
}

func TestSaltedDigestHexWrapsBothSides(t *testing.T) {
	data := []byte(`{"id":"RCP-1"}`)

	got := SaltedDigestHex(data, DigestSalt)

	salted := append([]byte(DigestSalt), data...)
	salted = append(salted, []byte(DigestSalt)...)
	sum := sha256.Sum256(salted)
	want := hex.EncodeToString(sum[:])

	if got != want {
		t.Fatalf("salted digest mismatch: %s vs %s", got, want)
	}
}

func TestSaltedDigestDiffersFromUnsalted(t *testing.T) {
	data := []byte("payload")
	if SaltedDigestHex(data, DigestSalt) == DigestHex(data) {
		t.Fatal("salted digest should differ from unsalted digest")
	}
}

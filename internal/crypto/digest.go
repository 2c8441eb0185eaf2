package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSalt is wrapped around canonical receipt bytes before hashing.
// It is a static, non-secret constant: it raises the cost of
// precomputed dictionary attacks against the hash space but provides no
// confidentiality and must never be treated as a key.
const DigestSalt = "RECEIPT_TAMPER_PROOF_2024"

// DigestHex returns the SHA-256 digest of data as lowercase hex.
func DigestHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaltedDigestHex returns the SHA-256 digest of salt||data||salt as
// lowercase hex.
func SaltedDigestHex(data []byte, salt string) string {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write(data)
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

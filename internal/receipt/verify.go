package receipt

import "github.com/invoixe/invoixe/pkg/types"

// Report carries the outcome of a full verification. A false field is a
// verdict (tampering detected), not an error: callers must keep it
// distinct from "verification could not be completed".
type Report struct {
	HashValid     bool
	ChecksumValid bool
}

// Valid reports whether both integrity checks passed.
func (r Report) Valid() bool {
	return r.HashValid && r.ChecksumValid
}

// Verify recomputes the digest over the currently stored protected
// fields and compares it to storedHash. Any single-bit difference in a
// protected field yields false. The comparison is plain equality: the
// digest is a public integrity value, not a secret. Verify never
// mutates its input and is idempotent.
func Verify(r types.Receipt, storedHash string) (bool, error) {
	computed, err := ComputeHash(r)
	if err != nil {
		return false, err
	}
	return computed == storedHash, nil
}

// VerifyFull checks both envelope digests of a stored receipt. The
// checksum is recomputed from the stored hash, so a hash copied
// verbatim from another receipt still fails the checksum unless id,
// item count and total also match.
func VerifyFull(sealed types.SealedReceipt) (Report, error) {
	hashOK, err := Verify(sealed.Receipt, sealed.Hash)
	if err != nil {
		return Report{}, err
	}

	checksum, err := ComputeIntegrityChecksum(sealed.Hash, sealed.ID, len(sealed.Items), sealed.Total)
	if err != nil {
		return Report{}, err
	}

	return Report{
		HashValid:     hashOK,
		ChecksumValid: checksum == sealed.IntegrityChecksum,
	}, nil
}

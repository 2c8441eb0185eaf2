package receipt

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

// IDPrefix marks receipt identifiers.
const IDPrefix = "RCP-"

const idSuffixLen = 9

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID produces a human-shareable receipt identifier: the prefix, the
// current time in milliseconds in base 36, and a random base-36 suffix,
// upper-cased. Uniqueness is probabilistic; the document store is the
// authority when collisions must be hard-enforced. The identifier is a
// lookup key, never proof of authenticity.
func NewID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(IDPrefix + ts + "-" + randomBase36(idSuffixLen))
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf) // never fails per crypto/rand docs
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return string(buf)
}

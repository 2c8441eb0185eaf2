package crypto

import "errors"

var (
	ErrInvalidNumber   = errors.New("number is not representable")
	ErrNonStringMapKey = errors.New("map keys must be strings")
	ErrUnsupportedType = errors.New("unsupported type for canonicalization")
	ErrKeyCollision    = errors.New("normalized map key collision")
)

// DigestError wraps a failure of the digest pipeline. On the creation
// path it is fatal; on the verification path callers report it as
// "could not verify" rather than as a negative verdict.
type DigestError struct {
	Err error
}

func (e *DigestError) Error() string {
	return "digest computation failed: " + e.Err.Error()
}

func (e *DigestError) Unwrap() error {
	return e.Err
}

package netdev

import "errors"

// ErrPayloadOutOfRange is returned when a read window falls outside the
// payload source. Callers treat it as a recoverable copy fault: the
// frame being built is abandoned and nothing is transmitted for it.
var ErrPayloadOutOfRange = errors.New("netdev: payload read out of range")

// PayloadSource supplies outbound payload bytes. It stands in for the
// caller-space buffer the payload is copied from; Read may legitimately
// fail when the backing region is no longer valid.
type PayloadSource interface {
	// Read copies len(dst) bytes starting at byte offset off into dst.
	Read(dst []byte, off int) error
}

// BytesSource is an in-memory PayloadSource backed by a byte slice.
type BytesSource []byte

func (s BytesSource) Read(dst []byte, off int) error {
	if off < 0 || off+len(dst) > len(s) {
		return ErrPayloadOutOfRange
	}
	copy(dst, s[off:])
	return nil
}

package wav

import "bytes"

// nullTermStr returns b up to its first NUL byte.
func nullTermStr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return string(b)
}

// millis converts n units counted at perSecond units a second into
// milliseconds, rounding down. A zero rate yields 0.
func millis(n, perSecond uint64) uint64 {
	if perSecond == 0 {
		return 0
	}

	return n * 1000 / perSecond
}

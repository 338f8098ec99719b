package probe

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Fingerprint is the 128-bit MD5 digest of status output, rendered as
// 32 lowercase hex characters. It is a change detector, not a security
// boundary.
type Fingerprint string

const fingerprintHexLen = 32

// Digest fingerprints status output. Invalid UTF-8 sequences are
// replaced with U+FFFD before hashing, so arbitrary bytes always digest
// and identical input always digests identically. Only stdout is ever
// fingerprinted; return codes and stderr do not affect the digest.
func Digest(stdout string) Fingerprint {
	sum := md5.Sum([]byte(strings.ToValidUTF8(stdout, "�")))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Valid reports whether f has the shape of an MD5 hex digest.
func (f Fingerprint) Valid() bool {
	if len(f) != fingerprintHexLen {
		return false
	}
	for _, c := range f {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func (f Fingerprint) String() string {
	return string(f)
}

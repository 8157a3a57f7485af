package compare

import (
	"crypto/md5"
)

// NewMD5Comparator creates an MD5 digest comparator.
// MD5 is used for change detection only, not for integrity against tampering.
func NewMD5Comparator(chunkSize int) *DigestComparator {
	return NewDigestComparator("md5", md5.New, chunkSize)
}

// New returns the comparator registered under method, or nil if unknown
func New(method string, chunkSize int) Comparator {
	switch method {
	case "md5", "":
		return NewMD5Comparator(chunkSize)
	case "sha256":
		return NewSHA256Comparator(chunkSize)
	case "binary":
		return NewBinaryComparator(chunkSize)
	default:
		return nil
	}
}

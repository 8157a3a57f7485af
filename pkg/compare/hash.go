package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"path/filepath"

	"github.com/sdejongh/sheetdiff/pkg/storage"
)

// DefaultChunkSize is the read size used while hashing
const DefaultChunkSize = 4096

// DigestComparator compares files by a cryptographic digest of their raw bytes.
// Both files are hashed sequentially, one chunk at a time.
type DigestComparator struct {
	name      string
	newHash   func() hash.Hash
	chunkSize int
}

// NewDigestComparator creates a comparator using the given hash constructor.
// chunkSize below DefaultChunkSize is raised to DefaultChunkSize.
func NewDigestComparator(name string, newHash func() hash.Hash, chunkSize int) *DigestComparator {
	if chunkSize < DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	return &DigestComparator{
		name:      name,
		newHash:   newHash,
		chunkSize: chunkSize,
	}
}

// NewSHA256Comparator creates a SHA-256 digest comparator
func NewSHA256Comparator(chunkSize int) *DigestComparator {
	return NewDigestComparator("sha256", sha256.New, chunkSize)
}

// Compare hashes the file in both locations; matching digests mean Same
func (c *DigestComparator) Compare(ctx context.Context, old, new storage.Backend, name string) (*Comparison, error) {
	oldHash, err := c.Digest(ctx, old, name)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", filepath.Join(old.Root(), name), err)
	}

	newHash, err := c.Digest(ctx, new, name)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", filepath.Join(new.Root(), name), err)
	}

	comp := &Comparison{
		Name:    name,
		OldPath: filepath.Join(old.Root(), name),
		NewPath: filepath.Join(new.Root(), name),
		OldHash: oldHash,
		NewHash: newHash,
	}

	if oldHash == newHash {
		comp.Result = Same
		comp.Reason = c.name + " hashes match"
	} else {
		comp.Result = Different
		comp.Reason = c.name + " hash mismatch"
	}

	return comp, nil
}

// Digest returns the hex digest of one file
func (c *DigestComparator) Digest(ctx context.Context, backend storage.Backend, name string) (string, error) {
	reader, err := backend.Read(ctx, name)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := c.newHash()
	buf := make([]byte, c.chunkSize)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *DigestComparator) Name() string {
	return c.name
}

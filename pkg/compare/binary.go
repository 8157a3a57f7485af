package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sdejongh/sheetdiff/pkg/storage"
)

// BinaryComparator compares files byte by byte, stopping at the first difference
type BinaryComparator struct {
	chunkSize int
}

// NewBinaryComparator creates a byte-by-byte comparator
func NewBinaryComparator(chunkSize int) *BinaryComparator {
	if chunkSize < DefaultChunkSize {
		chunkSize = DefaultChunkSize
	}
	return &BinaryComparator{chunkSize: chunkSize}
}

// Compare reads both files in lockstep; files of different sizes are never read
func (c *BinaryComparator) Compare(ctx context.Context, old, new storage.Backend, name string) (*Comparison, error) {
	comp := &Comparison{
		Name:    name,
		OldPath: filepath.Join(old.Root(), name),
		NewPath: filepath.Join(new.Root(), name),
	}

	oldInfo, err := old.Stat(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", comp.OldPath, err)
	}
	newInfo, err := new.Stat(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", comp.NewPath, err)
	}

	// Quick check: if sizes differ, files are different
	if oldInfo.Size != newInfo.Size {
		comp.Result = Different
		comp.Reason = fmt.Sprintf("size mismatch: old=%d, new=%d", oldInfo.Size, newInfo.Size)
		return comp, nil
	}

	oldReader, err := old.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	defer oldReader.Close()

	newReader, err := new.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	defer newReader.Close()

	oldBuf := make([]byte, c.chunkSize)
	newBuf := make([]byte, c.chunkSize)
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		oldN, oldErr := io.ReadFull(oldReader, oldBuf)
		newN, newErr := io.ReadFull(newReader, newBuf)
		if err := readError(oldErr); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", comp.OldPath, err)
		}
		if err := readError(newErr); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", comp.NewPath, err)
		}

		if oldN != newN || !bytes.Equal(oldBuf[:oldN], newBuf[:newN]) {
			comp.Result = Different
			comp.Reason = fmt.Sprintf("content differs at byte offset %d", offset+firstMismatch(oldBuf[:oldN], newBuf[:newN]))
			return comp, nil
		}
		offset += int64(oldN)

		if oldN < c.chunkSize {
			break
		}
	}

	comp.Result = Same
	comp.Reason = fmt.Sprintf("binary content matches (%d bytes)", offset)
	return comp, nil
}

// readError hides the end-of-file conditions io.ReadFull reports for short reads
func readError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

func firstMismatch(a, b []byte) int64 {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int64(i)
		}
	}
	return int64(n)
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

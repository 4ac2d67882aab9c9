package split

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"parcel/internal/utils"
)

// Part is one bounded-size fragment of a split file. Indexes are
// 1-based and dense; concatenating parts in index order reproduces the
// source byte-for-byte.
type Part struct {
	Index int
	Path  string
}

// Split carves the file at filePath into parts of exactly maxPartBytes
// (the final part may be shorter), written under outDir. The source
// file is left in place; removing it once all parts are delivered is
// the caller's job.
func Split(filePath string, maxPartBytes int64, outDir string) ([]Part, error) {
	if maxPartBytes <= 0 {
		return nil, &utils.SplitError{Path: filePath, Err: fmt.Errorf("invalid part size %d", maxPartBytes)}
	}
	src, err := os.Open(filePath)
	if err != nil {
		return nil, &utils.SplitError{Path: filePath, Err: err}
	}
	defer src.Close()
	stat, err := src.Stat()
	if err != nil {
		return nil, &utils.SplitError{Path: filePath, Err: err}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, &utils.SplitError{Path: outDir, Err: err}
	}

	size := stat.Size()
	numParts := int((size + maxPartBytes - 1) / maxPartBytes)
	base := filepath.Base(filePath)
	parts := make([]Part, 0, numParts)
	remaining := size
	for i := 1; i <= numParts; i++ {
		partPath := filepath.Join(outDir, fmt.Sprintf("%s.part%02d", base, i))
		n := min(maxPartBytes, remaining)
		if err := writePart(src, partPath, n); err != nil {
			removeParts(parts, partPath)
			return nil, err
		}
		parts = append(parts, Part{Index: i, Path: partPath})
		remaining -= n
	}
	return parts, nil
}

func writePart(src io.Reader, partPath string, n int64) error {
	out, err := os.Create(partPath)
	if err != nil {
		return &utils.SplitError{Path: partPath, Err: err}
	}
	defer out.Close()
	written, err := io.CopyN(out, src, n)
	if err != nil && !(errors.Is(err, io.EOF) && written == n) {
		return &utils.SplitError{Path: partPath, Err: err}
	}
	if err := out.Close(); err != nil {
		return &utils.SplitError{Path: partPath, Err: err}
	}
	return nil
}

// removeParts cleans up already-written parts after a mid-split
// failure, so a failed split leaves no stray fragments behind.
func removeParts(parts []Part, current string) {
	for _, part := range parts {
		os.Remove(part.Path)
	}
	os.Remove(current)
}

// Join concatenates parts in index order into destPath, the inverse of
// Split.
func Join(parts []Part, destPath string) error {
	if len(parts) == 0 {
		return &utils.SplitError{Path: destPath, Err: fmt.Errorf("no parts to join")}
	}
	out, err := os.Create(destPath)
	if err != nil {
		return &utils.SplitError{Path: destPath, Err: err}
	}
	defer out.Close()
	for _, part := range parts {
		in, err := os.Open(part.Path)
		if err != nil {
			return &utils.SplitError{Path: part.Path, Err: err}
		}
		if _, err := io.Copy(out, in); err != nil {
			in.Close()
			return &utils.SplitError{Path: part.Path, Err: err}
		}
		in.Close()
	}
	return out.Close()
}

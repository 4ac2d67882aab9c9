package split

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"parcel/internal/utils"
)

func makeTestFile(t *testing.T, dir string, size int64) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i*31 + 7) % 256)
	}
	path := filepath.Join(dir, "source.bin")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path, data
}

func TestSplit_RoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		size      int64
		partSize  int64
		wantParts int
	}{
		{"single_part_exact", 100, 100, 1},
		{"single_part_short", 1, 1000, 1},
		{"one_byte_over", 101, 100, 2},
		{"even_split", 1000, 100, 10},
		{"uneven_split", 1001, 100, 11},
		{"tiny_parts", 17, 3, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			outDir := filepath.Join(dir, "splits")
			srcPath, data := makeTestFile(t, dir, tc.size)

			parts, err := Split(srcPath, tc.partSize, outDir)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if len(parts) != tc.wantParts {
				t.Fatalf("Expected %d parts, got %d", tc.wantParts, len(parts))
			}
			for i, part := range parts {
				if part.Index != i+1 {
					t.Errorf("Expected dense 1-based indexes, part %d has index %d", i, part.Index)
				}
				info, err := os.Stat(part.Path)
				if err != nil {
					t.Fatalf("Part %d missing: %v", part.Index, err)
				}
				if part.Index < len(parts) && info.Size() != tc.partSize {
					t.Errorf("Non-final part %d has size %d, expected %d", part.Index, info.Size(), tc.partSize)
				}
				if info.Size() == 0 {
					t.Errorf("Part %d is empty", part.Index)
				}
			}

			// Concatenation in index order must reproduce the source.
			var joined bytes.Buffer
			for _, part := range parts {
				content, err := os.ReadFile(part.Path)
				if err != nil {
					t.Fatalf("Failed to read part: %v", err)
				}
				joined.Write(content)
			}
			if !bytes.Equal(joined.Bytes(), data) {
				t.Error("Concatenated parts do not match the source bytes")
			}

			// The source file stays in place.
			if _, err := os.Stat(srcPath); err != nil {
				t.Errorf("Source file should survive splitting: %v", err)
			}
		})
	}
}

func TestSplit_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	srcPath, _ := makeTestFile(t, dir, 0)
	parts, err := Split(srcPath, 100, filepath.Join(dir, "splits"))
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("Expected 0 parts for empty file, got %d", len(parts))
	}
}

func TestSplit_PartNaming(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "splits")
	srcPath, _ := makeTestFile(t, dir, 250)

	parts, err := Split(srcPath, 100, outDir)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	for _, part := range parts {
		expected := filepath.Join(outDir, fmt.Sprintf("source.bin.part%02d", part.Index))
		if part.Path != expected {
			t.Errorf("Expected deterministic part name %s, got %s", expected, part.Path)
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	t.Run("invalid_part_size", func(t *testing.T) {
		dir := t.TempDir()
		srcPath, _ := makeTestFile(t, dir, 10)
		for _, partSize := range []int64{0, -1} {
			_, err := Split(srcPath, partSize, dir)
			var splitErr *utils.SplitError
			if !errors.As(err, &splitErr) {
				t.Errorf("Expected SplitError for part size %d, got %v", partSize, err)
			}
		}
	})

	t.Run("missing_source", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Split(filepath.Join(dir, "nope.bin"), 100, dir)
		var splitErr *utils.SplitError
		if !errors.As(err, &splitErr) {
			t.Errorf("Expected SplitError, got %v", err)
		}
	})
}

func TestJoin(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		dir := t.TempDir()
		srcPath, data := makeTestFile(t, dir, 999)
		parts, err := Split(srcPath, 250, filepath.Join(dir, "splits"))
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}

		destPath := filepath.Join(dir, "joined.bin")
		if err := Join(parts, destPath); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		joined, err := os.ReadFile(destPath)
		if err != nil {
			t.Fatalf("Failed to read joined file: %v", err)
		}
		if !bytes.Equal(joined, data) {
			t.Error("Joined file does not match the source bytes")
		}
	})

	t.Run("no_parts", func(t *testing.T) {
		dir := t.TempDir()
		err := Join(nil, filepath.Join(dir, "out.bin"))
		var splitErr *utils.SplitError
		if !errors.As(err, &splitErr) {
			t.Errorf("Expected SplitError, got %v", err)
		}
	})
}

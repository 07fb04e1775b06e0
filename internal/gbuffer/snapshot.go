package gbuffer

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Snapshot format: gzip stream containing a little-endian header
// (magic, version, width, height) followed by the raw layer and depth
// data. Used for offline debugging and golden tests of the geometry
// pass output.

const (
	snapshotMagic   uint32 = 0x4C4D4742 // "LMGB"
	snapshotVersion uint32 = 1
)

// WriteSnapshot serializes the buffer to w.
func (b *Buffer) WriteSnapshot(w io.Writer) error {
	zw := gzip.NewWriter(w)

	header := []uint32{snapshotMagic, snapshotVersion, uint32(b.Width), uint32(b.Height)}
	if err := binary.Write(zw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for _, layer := range [][]float32{b.Layer0, b.Layer1, b.Layer2, b.Depth} {
		if err := binary.Write(zw, binary.LittleEndian, layer); err != nil {
			return fmt.Errorf("failed to write snapshot data: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot deserializes a buffer previously written with
// WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Buffer, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot stream: %w", err)
	}
	defer zr.Close()

	var header [4]uint32
	if err := binary.Read(zr, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if header[0] != snapshotMagic {
		return nil, fmt.Errorf("not a surface-buffer snapshot (magic 0x%X)", header[0])
	}
	if header[1] != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", header[1])
	}

	b := NewBuffer(int(header[2]), int(header[3]))
	for _, layer := range [][]float32{b.Layer0, b.Layer1, b.Layer2, b.Depth} {
		if err := binary.Read(zr, binary.LittleEndian, layer); err != nil {
			return nil, fmt.Errorf("failed to read snapshot data: %w", err)
		}
	}
	return b, nil
}

// SaveSnapshot writes the buffer to a file.
func (b *Buffer) SaveSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()
	return b.WriteSnapshot(f)
}

// LoadSnapshot reads a buffer from a file.
func LoadSnapshot(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

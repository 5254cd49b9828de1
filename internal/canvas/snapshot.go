package canvas

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when SnapshotPayload format changes
const snapshotSchemaVersion uint16 = 1

// SnapshotPayload is the serialized frame: grid size plus the rune and color
// planes, flattened row-major.
type SnapshotPayload struct {
	Schema uint16
	Width  int
	Height int
	Runes  []rune
	Colors []uint8
}

// Snapshot captures the current frame as a payload.
func (c *Canvas) Snapshot() *SnapshotPayload {
	p := &SnapshotPayload{
		Schema: snapshotSchemaVersion,
		Width:  c.w,
		Height: c.h,
		Runes:  make([]rune, len(c.cells)),
		Colors: make([]uint8, len(c.cells)),
	}
	for i, cell := range c.cells {
		p.Runes[i] = cell.Ch
		p.Colors[i] = cell.Color
	}
	return p
}

// WriteSnapshot serializes the current frame to path, atomically.
func (c *Canvas) WriteSnapshot(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(c.Snapshot()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadSnapshot loads a serialized frame. A schema mismatch is rejected
// rather than guessed at.
func ReadSnapshot(path string) (*SnapshotPayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p SnapshotPayload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, err
	}
	if p.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("snapshot schema %d, expected %d", p.Schema, snapshotSchemaVersion)
	}
	if len(p.Runes) != p.Width*p.Height || len(p.Colors) != p.Width*p.Height {
		return nil, fmt.Errorf("snapshot planes do not match %dx%d", p.Width, p.Height)
	}
	return &p, nil
}

// Apply restores a snapshot into the canvas, resizing to fit.
func (c *Canvas) Apply(p *SnapshotPayload) {
	c.Resize(p.Width, p.Height)
	for i := range c.cells {
		c.cells[i] = Cell{Ch: p.Runes[i], Color: p.Colors[i]}
	}
}

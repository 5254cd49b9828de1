package source

import (
	"bytes"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// LineCol represents a human-readable position in a sketch file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах от начала строки
}

// File holds the content of a single sketch version together with its line
// index. A sketch is always reloaded whole, so there is no interning and no
// file set: every reload attempt builds a fresh File.
type File struct {
	Path    string
	Content []byte
	lineIdx []uint32 // байтовый офсет начала каждой строки
}

// NewFile wraps normalized content. CRLF and a leading BOM are stripped so
// that spans are stable across editors.
func NewFile(path string, content []byte) *File {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return &File{
		Path:    path,
		Content: content,
		lineIdx: buildLineIndex(content),
	}
}

// Load reads a sketch from disk.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFile(path, content), nil
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("sketch too large: %w", err))
			}
			idx = append(idx, off)
		}
	}
	return idx
}

// NumLines returns the number of lines (a trailing newline does not start a
// new countable line unless content follows it).
func (f *File) NumLines() int {
	n := len(f.lineIdx)
	if n > 1 && int(f.lineIdx[n-1]) == len(f.Content) {
		return n - 1
	}
	return n
}

// Resolve converts a byte offset into a 1-based line/column pair.
// Offsets past the end resolve to the position just after the last byte.
func (f *File) Resolve(offset uint32) LineCol {
	if int(offset) > len(f.Content) {
		offset = uint32(len(f.Content))
	}
	// бинарный поиск по началам строк
	lo, hi := 0, len(f.lineIdx)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineIdx[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return LineCol{
		Line: uint32(lo) + 1,
		Col:  offset - f.lineIdx[lo] + 1,
	}
}

// LineStart returns the byte offset at which the given 1-based line begins.
func (f *File) LineStart(line uint32) (uint32, bool) {
	if line == 0 || int(line) > len(f.lineIdx) {
		return 0, false
	}
	return f.lineIdx[line-1], true
}

// LineText returns the text of the given 1-based line without the newline.
func (f *File) LineText(line uint32) string {
	start, ok := f.LineStart(line)
	if !ok {
		return ""
	}
	end := len(f.Content)
	if int(line) < len(f.lineIdx) {
		end = int(f.lineIdx[line]) - 1 // без '\n'
	}
	return string(f.Content[start:end])
}

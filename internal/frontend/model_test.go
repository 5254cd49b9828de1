package frontend

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"zajal/internal/reload"
)

func writeSketch(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	// гарантированно свежий mtime
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
}

func step(m *Model, n int) {
	for i := 0; i < n; i++ {
		m.Update(frameMsg(time.Now()))
	}
}

func newModel(t *testing.T, src string) (*Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.zj")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return New(Options{SketchPath: path}), path
}

func TestFirstFrameLoadsSketch(t *testing.T) {
	m, _ := newModel(t, "draw do\ncircle 10, 10, 2\nend")
	step(m, 1)
	if got := m.orc.State(); got != reload.StateRunning {
		t.Fatalf("state = %s (err %v), want running", got, m.orc.Err())
	}
	if !strings.Contains(m.View(), "running") {
		t.Fatal("status line missing from view")
	}
}

func TestReloadHappensAtCadence(t *testing.T) {
	m, path := newModel(t, "$x = 1\n\ndraw do\ncircle 1, 1, 1\nend")
	step(m, 1)

	writeSketch(t, path, "$x = 1\n\ndraw do\ncircle 2, 2, 2\nend")
	// до следующей контрольной точки файл не перечитывается
	step(m, defaultCadence-1)
	first := m.orc.Current().Text

	step(m, 1)
	if m.orc.Current().Text == first {
		t.Fatal("cadence frame did not pick up the change")
	}
}

func TestCheckEveryFrameCadence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.zj")
	if err := os.WriteFile(path, []byte("draw do\nend"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(Options{SketchPath: path, CheckEvery: 1})

	step(m, 1)
	if got := m.orc.State(); got != reload.StateRunning {
		t.Fatalf("state = %s (err %v), want running", got, m.orc.Err())
	}

	writeSketch(t, path, "$x = 5\n\ndraw do\nend")
	step(m, 1)
	x, _ := m.orc.Env().Interp().Global("x")
	if x.Int() != 5 {
		t.Fatal("cadence 1 must pick up the change on the very next frame")
	}
}

func TestErrorViewKeepsLastFrame(t *testing.T) {
	m, path := newModel(t, "draw do\ncircle 10, 5, 2\nend")
	step(m, 1)

	writeSketch(t, path, "draw do\ncircle 10, 5") // незакрытый do
	step(m, defaultCadence)
	if m.orc.State() != reload.StateError {
		t.Fatalf("state = %s, want error", m.orc.State())
	}
	view := m.View()
	if !strings.Contains(view, "fix the file to resume") {
		t.Fatal("error overlay missing")
	}
	if !strings.Contains(view, "█") {
		t.Fatal("last good frame not rendered under the overlay")
	}
}

func TestKeyUpIsSynthesizedNextFrame(t *testing.T) {
	m, _ := newModel(t, `
$downs = 0
$ups = 0

key_down do |k|
  $downs += 1
end

key_up do |k|
  $ups += 1
end

draw do
end
`)
	step(m, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	downs, _ := m.orc.Env().Interp().Global("downs")
	ups, _ := m.orc.Env().Interp().Global("ups")
	if downs.Int() != 1 || ups.Int() != 0 {
		t.Fatalf("after key press downs/ups = %d/%d, want 1/0", downs.Int(), ups.Int())
	}

	step(m, 1)
	ups, _ = m.orc.Env().Interp().Global("ups")
	if ups.Int() != 1 {
		t.Fatalf("key_up not synthesized on the next frame: %d", ups.Int())
	}
}

func TestHeldMouseKeepsDragging(t *testing.T) {
	m, _ := newModel(t, `
$drags = 0

mouse_dragged do |x, y, b|
  $drags += 1
end

draw do
end
`)
	step(m, 1)
	m.Update(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	step(m, 3)

	drags, _ := m.orc.Env().Interp().Global("drags")
	if drags.Int() != 3 {
		t.Fatalf("drags = %d, want 3 (one per held frame)", drags.Int())
	}

	m.Update(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	step(m, 2)
	drags, _ = m.orc.Env().Interp().Global("drags")
	if drags.Int() != 3 {
		t.Fatal("release must stop drag synthesis")
	}
}

func TestMissingFileIsFatal(t *testing.T) {
	m, path := newModel(t, "draw do\nend")
	step(m, 1)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	// контрольная точка возвращает команду с fatalMsg
	_, cmd := m.stepFrame()
	for i := 0; i < defaultCadence && cmd != nil; i++ {
		if msg, ok := cmd().(fatalMsg); ok {
			m.Update(msg)
			break
		}
		_, cmd = m.stepFrame()
	}
	if m.Fatal() == nil {
		t.Fatal("missing sketch file must be fatal")
	}
}

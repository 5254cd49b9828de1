// Package frontend is the terminal window for a running sketch: a Bubble Tea
// program that drives the frame loop, delivers input events to the sketch,
// polls for file changes at a fixed cadence and renders the canvas.
package frontend

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"zajal/internal/canvas"
	"zajal/internal/gfx"
	"zajal/internal/interp"
	"zajal/internal/reload"
	"zajal/internal/watch"
)

const (
	defaultFPS = 30
	// проверка файла не на каждом кадре, чтобы не дёргать stat впустую
	defaultCadence = 15
)

type frameMsg time.Time

// fatalMsg carries a FatalError out of the update loop.
type fatalMsg struct{ err error }

// Model is the Bubble Tea model wrapping the reload orchestrator.
type Model struct {
	orc     *reload.Orchestrator
	host    *gfx.Host
	watcher *watch.Watcher
	log     *zap.Logger

	interval  time.Duration
	cadence   int64
	spin      spinner.Model
	lastGood  []canvas.Cell
	frame     int64
	mouseDown bool
	mouseBtn  int
	pendKeyUp []string
	snapPath  string
	fatal     error
	quitting  bool
}

// Options configures the frontend.
type Options struct {
	SketchPath string
	SnapPath   string
	Logger     *zap.Logger
	// FPS is the frame rate; zero picks the default of 30.
	FPS int
	// CheckEvery is the reload polling cadence in frames; zero picks 15.
	CheckEvery int
}

// New builds the model. The sketch is not loaded yet; the first watcher
// check inside the first frame performs the initial load.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.CheckEvery <= 0 {
		opts.CheckEvery = defaultCadence
	}
	host := gfx.NewHost(canvas.New(80, 24))
	orc := reload.NewOrchestrator(host.Bind(), opts.Logger)
	m := &Model{
		orc:      orc,
		host:     host,
		watcher:  watch.New(opts.SketchPath),
		log:      opts.Logger,
		interval: time.Second / time.Duration(opts.FPS),
		cadence:  int64(opts.CheckEvery),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		snapPath: opts.SnapPath,
	}
	// снимок последнего кадра до сброса — он рисуется, пока среда строится
	orc.BeforeReset = func() { m.lastGood = host.Canvas.Cells() }
	return m
}

// Fatal returns the error that should abort the process, if any.
func (m *Model) Fatal() error { return m.fatal }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.spin.Tick)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		return m.stepFrame()
	case fatalMsg:
		m.fatal = msg.err
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		if msg.Width > 0 && msg.Height > 1 {
			m.host.Canvas.Resize(msg.Width, msg.Height-1)
			m.orc.Fire("window_resized",
				interp.IntVal(int64(msg.Width)), interp.IntVal(int64(msg.Height-1)))
		}
		return m, nil
	}
	return m, nil
}

// stepFrame is one slot of the cooperative loop: reload check at cadence,
// then update and draw. A reload is atomic with respect to the frame: it
// finishes before the next draw starts.
func (m *Model) stepFrame() (tea.Model, tea.Cmd) {
	m.frame++
	m.host.FrameCount = m.frame

	if (m.frame-1)%m.cadence == 0 {
		changes, err := m.watcher.Check()
		if err != nil {
			var fatal *reload.FatalError
			if errors.As(err, &fatal) {
				return m, func() tea.Msg { return fatalMsg{err: err} }
			}
		}
		for _, ch := range changes {
			m.applyChange(ch)
		}
	}

	// отложенные key_up: терминал не шлёт отпускание клавиш
	for _, key := range m.pendKeyUp {
		m.orc.Fire("key_up", interp.StrVal(key))
	}
	m.pendKeyUp = m.pendKeyUp[:0]

	if m.orc.State() == reload.StateRunning {
		// зажатая кнопка мыши продолжает тянуть mouse_dragged
		if m.mouseDown {
			m.orc.Fire("mouse_dragged",
				interp.IntVal(int64(m.host.MouseX)),
				interp.IntVal(int64(m.host.MouseY)),
				interp.IntVal(int64(m.mouseBtn)))
		}
		m.orc.Fire("update")
		m.orc.Fire("draw")
		if m.orc.State() == reload.StateRunning {
			m.lastGood = m.host.Canvas.Cells()
		}
	}
	return m, m.tick()
}

func (m *Model) applyChange(ch watch.Change) {
	var err error
	if m.orc.Current() == nil {
		err = m.orc.Load(ch.Path, ch.Text)
	} else {
		err = m.orc.Reload(ch.Text)
	}
	if err != nil {
		m.log.Debug("sketch did not come up", zap.String("error", err.Error()))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.orc.Fire("exit")
		return m, tea.Quit
	case "ctrl+r":
		// принудительная перезагрузка: мтайм не важен, читаем заново
		changes, err := m.forceRead()
		if err != nil {
			return m, func() tea.Msg { return fatalMsg{err: err} }
		}
		for _, ch := range changes {
			m.applyChange(ch)
		}
		return m, nil
	case "ctrl+s":
		if m.snapPath != "" {
			if err := m.host.Canvas.WriteSnapshot(m.snapPath); err != nil {
				m.log.Warn("snapshot failed", zap.String("error", err.Error()))
			}
		}
		return m, nil
	}
	key := msg.String()
	m.orc.Fire("key_down", interp.StrVal(key))
	m.pendKeyUp = append(m.pendKeyUp, key)
	return m, nil
}

func (m *Model) forceRead() ([]watch.Change, error) {
	fresh := watch.New(m.watcher.Paths()...)
	return fresh.Check()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	m.host.MouseX, m.host.MouseY = msg.X, msg.Y
	x, y := interp.IntVal(int64(msg.X)), interp.IntVal(int64(msg.Y))
	btn := interp.IntVal(int64(msg.Button))

	switch msg.Action {
	case tea.MouseActionPress:
		m.mouseDown = true
		m.mouseBtn = int(msg.Button)
		m.orc.Fire("mouse_down", x, y, btn)
	case tea.MouseActionRelease:
		m.mouseDown = false
		m.orc.Fire("mouse_up", x, y, btn)
	case tea.MouseActionMotion:
		if m.mouseDown {
			m.orc.Fire("mouse_dragged", x, y, btn)
		} else {
			m.orc.Fire("mouse_moved", x, y)
		}
	}
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("1")).
			Padding(0, 1)
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.orc.State() {
	case reload.StateNoSketch:
		return statusStyle.Render("waiting for sketch...")
	case reload.StateError:
		return m.errorView()
	}
	status := "running"
	if cur := m.orc.Current(); cur != nil && cur.Bare {
		// скетч без обработчиков: один прогон, кадр застывает
		status = "static"
	}
	return m.host.Canvas.Render() + "\n" + statusStyle.Render(status+" · ctrl+r reload · ctrl+s snapshot · ctrl+c quit")
}

// errorView keeps the last good frame visible and floats the error panel
// over it. The sketch recovers on its own once the file parses again.
func (m *Model) errorView() string {
	frame := m.host.Canvas
	if m.lastGood != nil {
		frame.Restore(m.lastGood)
	}
	msg := "unknown error"
	if err := m.orc.Err(); err != nil {
		msg = err.Error()
	}
	panel := overlayStyle.Render(m.spin.View() + " " + errStyle.Render(msg) + "\nfix the file to resume")
	return frame.Render() + "\n" + panel
}

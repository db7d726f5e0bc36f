package source

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Terminal is an event source backed by a tcell screen. Terminals report
// key presses only, so every event is delivered as key.KeyDown.
//
// Terminal also implements io.Writer: the last line written is shown on
// the first screen row.
type Terminal struct {
	screen     tcell.Screen
	dispatcher *Dispatcher
	logger     *zap.Logger

	mu      sync.Mutex
	message string
	closed  bool
}

// NewTerminal creates a terminal source on the process's controlling
// terminal. Call Init before Run.
func NewTerminal(logger *zap.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, logger), nil
}

// NewTerminalWithScreen creates a terminal source on an existing screen,
// such as a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, logger *zap.Logger) *Terminal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Terminal{
		screen:     screen,
		dispatcher: NewDispatcher(),
		logger:     logger,
	}
}

// Init initializes the screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.Clear()
	return nil
}

// Listen attaches fn for events of type et.
func (t *Terminal) Listen(et key.EventType, fn func(*key.Event)) func() {
	return t.dispatcher.Listen(et, fn)
}

// ActiveElement returns nil: a terminal has no editable focus target.
func (t *Terminal) ActiveElement() *Element {
	return nil
}

// Run polls the screen and dispatches key events until ctx is cancelled
// or the screen is finalized.
func (t *Terminal) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			kev, ok := TranslateKey(e)
			if !ok {
				t.logger.Debug("untranslatable key", zap.String("name", e.Name()))
				continue
			}
			t.dispatcher.Dispatch(kev)

		case *tcell.EventResize:
			t.screen.Sync()
			t.redraw()

		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// Write shows the last non-empty line of p on the first screen row.
func (t *Terminal) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimRight(string(p), "\n"), "\n")
	msg := lines[len(lines)-1]

	t.mu.Lock()
	t.message = msg
	t.mu.Unlock()

	t.redraw()
	return len(p), nil
}

func (t *Terminal) redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.screen.Clear()
	width, _ := t.screen.Size()
	x := 0
	g := uniseg.NewGraphemes(t.message)
	for g.Next() && x < width {
		runes := g.Runes()
		t.screen.SetContent(x, 0, runes[0], runes[1:], tcell.StyleDefault)
		w := g.Width()
		if w < 1 {
			w = 1
		}
		x += w
	}
	t.screen.Show()
}

// Shutdown finalizes the screen. Safe to call more than once.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyEscape:    "escape",
	tcell.KeyEnter:     "enter",
	tcell.KeyTab:       "tab",
	tcell.KeyBacktab:   "tab",
	tcell.KeyBackspace: "backspace",
	tcell.KeyDelete:    "delete",
	tcell.KeyInsert:    "insert",
	tcell.KeyHome:      "home",
	tcell.KeyEnd:       "end",
	tcell.KeyPgUp:      "pageup",
	tcell.KeyPgDn:      "pagedown",
	tcell.KeyUp:        "arrowup",
	tcell.KeyDown:      "arrowdown",
	tcell.KeyLeft:      "arrowleft",
	tcell.KeyRight:     "arrowright",
	tcell.KeyF1:        "f1",
	tcell.KeyF2:        "f2",
	tcell.KeyF3:        "f3",
	tcell.KeyF4:        "f4",
	tcell.KeyF5:        "f5",
	tcell.KeyF6:        "f6",
	tcell.KeyF7:        "f7",
	tcell.KeyF8:        "f8",
	tcell.KeyF9:        "f9",
	tcell.KeyF10:       "f10",
	tcell.KeyF11:       "f11",
	tcell.KeyF12:       "f12",
}

// ctrlPunct holds the control keys that are not letters. tcell reports
// them either by their ctrl key code or by the raw ASCII control code.
var ctrlPunct = map[tcell.Key]string{
	tcell.KeyCtrlBackslash:  "\\",
	tcell.KeyCtrlRightSq:    "]",
	tcell.KeyCtrlCarat:      "^",
	tcell.KeyCtrlUnderscore: "_",
	tcell.KeyFS:             "\\",
	tcell.KeyGS:             "]",
	tcell.KeyRS:             "^",
	tcell.KeyUS:             "_",
}

// TranslateKey converts a tcell key event into a keydown key.Event.
// Uppercase runes carry the shift modifier, matching what a keyboard
// reports for a shifted letter.
func TranslateKey(ev *tcell.EventKey) (*key.Event, bool) {
	mods := translateMod(ev.Modifiers())
	k := ev.Key()

	var name string
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			mods = mods.With(key.ModShift)
		}
		name = string(r)

	case k == tcell.KeyCtrlSpace:
		name = " "
		mods = mods.With(key.ModCtrl)

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		name = string(rune('a' + int(k-tcell.KeyCtrlA)))
		mods = mods.With(key.ModCtrl)

	case k == tcell.KeyBacktab:
		name = namedKeys[k]
		mods = mods.With(key.ModShift)

	case k >= tcell.KeySOH && k <= tcell.KeySUB && namedKeys[k] == "":
		name = string(rune('a' + int(k-tcell.KeySOH)))
		mods = mods.With(key.ModCtrl)

	default:
		if n, ok := namedKeys[k]; ok {
			name = n
			break
		}
		if p, ok := ctrlPunct[k]; ok {
			name = p
			mods = mods.With(key.ModCtrl)
			break
		}
		return nil, false
	}

	ev2 := key.NewEvent(name, mods)
	ev2.Timestamp = ev.When()
	return ev2, true
}

func translateMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

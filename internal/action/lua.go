package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
)

// Default Lua limits.
const (
	DefaultCallStackSize = 256
	DefaultScriptTimeout = 2 * time.Second
)

// LuaConfig configures a Lua engine.
type LuaConfig struct {
	// Output receives print output. Default: io.Discard.
	Output io.Writer

	// Quit is called by the script function quit(). Nil makes quit() a no-op.
	Quit func()

	// CallStackSize caps the call depth. Default: DefaultCallStackSize.
	CallStackSize int

	// Timeout caps one script's run time. Zero means DefaultScriptTimeout.
	Timeout time.Duration

	Logger *zap.Logger
}

// scriptCall is one script queued for the engine goroutine.
type scriptCall struct {
	ctx    context.Context
	script string
	event  *key.Event
	keys   string
	result chan error
}

// Lua runs hotkey scripts on a single goroutine that owns the Lua state.
// Globals set by one script stay visible to later ones.
type Lua struct {
	L       *lua.LState
	timeout time.Duration
	out     io.Writer
	quit    func()
	logger  *zap.Logger

	queue     chan *scriptCall
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewLua creates a sandboxed Lua state and starts its goroutine.
func NewLua(cfg LuaConfig) *Lua {
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	if cfg.CallStackSize <= 0 {
		cfg.CallStackSize = DefaultCallStackSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultScriptTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: cfg.CallStackSize,
	})

	e := &Lua{
		L:       L,
		timeout: cfg.Timeout,
		out:     cfg.Output,
		quit:    cfg.Quit,
		logger:  cfg.Logger.Named("lua"),
		queue:   make(chan *scriptCall, 16),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	e.install()

	go e.run()
	return e
}

// install opens the safe libraries and the hotkey globals.
func (e *Lua) install() {
	L := e.L
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug and package are never opened.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(e.luaPrint))
	L.SetGlobal("quit", L.NewFunction(e.luaQuit))
}

func (e *Lua) luaPrint(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

func (e *Lua) luaQuit(L *lua.LState) int {
	if e.quit != nil {
		e.quit()
	}
	return 0
}

// Exec runs script with the global event table describing ev. It blocks
// until the script finishes, times out, or ctx is done.
func (e *Lua) Exec(ctx context.Context, script string, ev *key.Event, keys string) error {
	call := &scriptCall{
		ctx:    ctx,
		script: script,
		event:  ev,
		keys:   keys,
		result: make(chan error, 1),
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-e.done:
		return ErrEngineClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineClosed
	case e.queue <- call:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-call.result:
		if !ok {
			return ErrEngineClosed
		}
		return err
	case <-e.stopped:
		select {
		case err, ok := <-call.result:
			if ok {
				return err
			}
		default:
		}
		return ErrEngineClosed
	}
}

func (e *Lua) run() {
	defer close(e.stopped)
	for {
		select {
		case <-e.done:
			e.drain()
			return
		case call := <-e.queue:
			call.result <- e.execute(call)
			close(call.result)
		}
	}
}

// drain fails calls queued before Close.
func (e *Lua) drain() {
	for {
		select {
		case call := <-e.queue:
			call.result <- ErrEngineClosed
			close(call.result)
		default:
			return
		}
	}
}

// execute runs one call on the engine goroutine.
func (e *Lua) execute(call *scriptCall) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(call.ctx, e.timeout)
	defer cancel()

	L := e.L
	L.SetContext(ctx)
	defer L.RemoveContext()

	L.SetGlobal("event", eventTable(L, call.event, call.keys))

	start := time.Now()
	err = L.DoString(call.script)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("lua script exceeded %v: %w", e.timeout, context.DeadlineExceeded)
	}
	e.logger.Debug("script finished",
		zap.String("keys", call.keys),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}

// eventTable describes ev for scripts.
func eventTable(L *lua.LState, ev *key.Event, keys string) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("keys", lua.LString(keys))
	if ev == nil {
		return t
	}
	t.RawSetString("key", lua.LString(ev.Key))
	t.RawSetString("type", lua.LString(ev.Type.String()))
	t.RawSetString("ctrl", lua.LBool(ev.Ctrl()))
	t.RawSetString("shift", lua.LBool(ev.Shift()))
	t.RawSetString("alt", lua.LBool(ev.Alt()))
	t.RawSetString("meta", lua.LBool(ev.Meta()))
	t.RawSetString("modifiers", lua.LString(ev.Modifiers.String()))
	return t
}

// Close stops the engine goroutine and closes the Lua state. Pending
// scripts fail with ErrEngineClosed.
func (e *Lua) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
		<-e.stopped
		e.L.Close()
	})
}

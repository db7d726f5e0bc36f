package action

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/keymap"
)

// Runner performs binding actions. It implements keymap.Runner.
type Runner struct {
	ctx    context.Context
	out    io.Writer
	quit   func()
	lua    *Lua
	logger *zap.Logger

	luaCfg  LuaConfig
	luaOnce sync.Once
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets the writer used by print actions and Lua print.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithQuit sets the function called by quit actions.
func WithQuit(fn func()) Option {
	return func(r *Runner) { r.quit = fn }
}

// WithLua sets the Lua engine limits. Output and Quit are taken from the
// runner.
func WithLua(cfg LuaConfig) Option {
	return func(r *Runner) { r.luaCfg = cfg }
}

// WithContext bounds Lua scripts by ctx.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) { r.ctx = ctx }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a runner. The Lua engine starts on the first lua
// action.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		ctx:    context.Background(),
		out:    os.Stdout,
		quit:   func() {},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.Named("action")
	return r
}

var _ keymap.Runner = (*Runner)(nil)

// Run performs b's action for ev.
func (r *Runner) Run(b keymap.Binding, ev *key.Event) error {
	r.logger.Debug("running action",
		zap.String("action", b.Action),
		zap.String("keys", b.Keys),
	)

	switch b.Action {
	case keymap.ActionPrint:
		msg := b.Message
		if msg == "" {
			msg = b.Keys
		}
		_, err := fmt.Fprintln(r.out, msg)
		return err

	case keymap.ActionQuit:
		r.quit()
		return nil

	case keymap.ActionLua:
		if b.Script == "" {
			return ErrNoScript
		}
		return r.engine().Exec(r.ctx, b.Script, ev, b.Keys)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, b.Action)
	}
}

func (r *Runner) engine() *Lua {
	r.luaOnce.Do(func() {
		cfg := r.luaCfg
		cfg.Output = r.out
		cfg.Quit = r.quit
		if cfg.Logger == nil {
			cfg.Logger = r.logger
		}
		r.lua = NewLua(cfg)
	})
	return r.lua
}

// Close stops the Lua engine if it was started. Later lua actions fail
// with ErrEngineClosed.
func (r *Runner) Close() {
	r.luaOnce.Do(func() {
		r.lua = NewLua(LuaConfig{})
	})
	r.lua.Close()
}

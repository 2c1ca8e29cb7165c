package loop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/collect-game/game/assets"
	"github.com/wricardo/collect-game/game/engine"
)

// ErrStopped is returned by Submit once the loop has quit
var ErrStopped = errors.New("loop stopped")

// View is what renderers and network layers read: the latest snapshot plus
// presentation-only state. Views are immutable once published.
type View struct {
	Snapshot engine.Snapshot
	Frames   map[assets.Kind]int
	Frame    uint64
	// Notice holds the last failed reset, cleared by the next successful one
	Notice string
}

// AnimFrame returns the animation frame index for kind
func (v *View) AnimFrame(kind assets.Kind) int {
	return v.Frames[kind]
}

// StepResult reports what one frame did
type StepResult struct {
	Quit    bool
	Changed bool
	Err     error
}

// Observer is called from the loop goroutine whenever the snapshot version
// or the notice changes. It must not block.
type Observer func(View)

// Option customises a Loop
type Option func(*Loop)

// WithObserver registers fn to be notified of state changes
func WithObserver(fn Observer) Option {
	return func(l *Loop) {
		l.observer = fn
	}
}

// WithFrames sets the number of animation frames for kind
func WithFrames(kind assets.Kind, n int) Option {
	return func(l *Loop) {
		l.anim.SetFrames(kind, n)
	}
}

// request is one queued command. reply is nil for local input.
type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	result Result
	err    error
}

// Loop owns an Engine and drives it one frame at a time: queued input in
// arrival order, then the enemy tick, then the animation counter. Only the
// goroutine calling Step (or Run) touches the engine; other goroutines use
// Enqueue, Submit and View.
type Loop struct {
	eng    engine.Engine
	config engine.Config
	anim   *Animator

	mu      sync.Mutex
	pending []request

	done     chan struct{}
	stopOnce sync.Once

	view     atomic.Pointer[View]
	observer Observer

	frame    uint64
	notice   string
	snapshot engine.Snapshot
}

// New creates a loop around eng and publishes the initial view
func New(eng engine.Engine, opts ...Option) *Loop {
	config := eng.Config()
	l := &Loop{
		eng:    eng,
		config: config,
		anim:   NewAnimator(config.AnimationDelay),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.snapshot = eng.Snapshot()
	l.store()
	return l
}

// Enqueue adds a command to the input queue without waiting for it to apply
func (l *Loop) Enqueue(cmd Command) {
	l.push(request{cmd: cmd})
}

func (l *Loop) push(req request) {
	l.mu.Lock()
	l.pending = append(l.pending, req)
	l.mu.Unlock()
}

// Submit hands cmd to the loop goroutine and waits until the frame that
// applies it. Safe for concurrent use.
func (l *Loop) Submit(ctx context.Context, cmd Command) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if l.Stopped() {
		return Result{}, ErrStopped
	}

	req := request{cmd: cmd, reply: make(chan response, 1)}
	l.push(req)

	select {
	case resp := <-req.reply:
		return resp.result, resp.err
	case <-l.done:
		select {
		case resp := <-req.reply:
			return resp.result, resp.err
		default:
		}
		return Result{}, ErrStopped
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// View returns the most recently published view. Safe for concurrent use.
func (l *Loop) View() View {
	return *l.view.Load()
}

// Snapshot returns the snapshot of the most recently published view
func (l *Loop) Snapshot() engine.Snapshot {
	return l.view.Load().Snapshot
}

// Done is closed once the loop has quit
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Stopped reports whether the loop has quit
func (l *Loop) Stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Stop ends the loop; pending and future Submit calls return ErrStopped
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

// Step runs one frame. Input is applied before the tick so a move and the
// enemy steps of the same frame are evaluated in that order.
func (l *Loop) Step() StepResult {
	if l.Stopped() {
		return StepResult{Quit: true}
	}

	var res StepResult
	before := l.eng.Version()
	notice := l.notice

	// Commands queued during this frame wait for the next one
	l.mu.Lock()
	queue := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, req := range queue {
		if req.cmd.Kind == CommandQuit {
			req.respond(Result{Command: req.cmd, Applied: true, Snapshot: l.eng.Snapshot(), Notice: l.notice}, nil)
			l.Stop()
			return StepResult{Quit: true}
		}
		result, err := l.apply(req.cmd)
		if err != nil {
			res.Err = err
		}
		result.Snapshot = l.eng.Snapshot()
		result.Notice = l.notice
		req.respond(result, err)
	}

	l.eng.Tick()
	l.anim.Advance()
	l.frame++

	res.Changed = l.eng.Version() != before
	l.publish(res.Changed || l.notice != notice)
	return res
}

// Run drives Step from a ticker at the configured tick rate until a quit
// command arrives or ctx is cancelled
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.config.TickRate))
	defer ticker.Stop()
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-ticker.C:
			res := l.Step()
			if res.Quit {
				return nil
			}
			if res.Err != nil {
				log.Printf("Loop step error: %v", res.Err)
			}
		}
	}
}

func (r request) respond(result Result, err error) {
	if r.reply != nil {
		r.reply <- response{result: result, err: err}
	}
}

func (l *Loop) apply(cmd Command) (Result, error) {
	result := Result{Command: cmd}

	switch cmd.Kind {
	case CommandMove:
		outcome := l.eng.Move(cmd.Direction)
		result.Move = &outcome
		result.Applied = outcome.Accepted
		return result, nil

	case CommandRestart:
		// Restart only means something on the end screen
		if !l.eng.Status().Terminal() {
			return result, nil
		}
		return l.reset(result)

	case CommandReset:
		return l.reset(result)
	}

	return result, fmt.Errorf("unknown command %d", cmd.Kind)
}

// reset reloads the level. On failure the previous state stays in place and
// the error is kept as the view's notice.
func (l *Loop) reset(result Result) (Result, error) {
	if err := l.eng.Reset(); err != nil {
		l.notice = err.Error()
		return result, err
	}
	l.notice = ""
	l.anim.Reset()
	result.Applied = true
	return result, nil
}

func (l *Loop) publish(changed bool) {
	if changed {
		l.snapshot = l.eng.Snapshot()
	}
	view := l.store()
	if changed && l.observer != nil {
		l.observer(view)
	}
}

func (l *Loop) store() View {
	view := View{
		Snapshot: l.snapshot,
		Frames:   l.anim.Indices(),
		Frame:    l.frame,
		Notice:   l.notice,
	}
	l.view.Store(&view)
	return view
}

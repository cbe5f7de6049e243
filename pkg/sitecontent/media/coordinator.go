// Package media keeps at most one audio or video element playing at a time
// and runs the autoplay-on-visibility policy for elements that opt in.
package media

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Kind distinguishes audio from video elements.
type Kind int

const (
	KindAudio Kind = iota
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// DefaultVisibilityThreshold is the visible fraction at which an opted-in
// element autoplays.
const DefaultVisibilityThreshold = 0.5

// ErrClosed is returned by Play on a closed Registration.
var ErrClosed = errors.New("media registration closed")

// Element is a playable audio or video element. Pause on a paused element
// must be a no-op. Play may be rejected, for example when the host refuses
// unmuted autoplay.
type Element interface {
	Kind() Kind
	Paused() bool
	Pause()
	Play(ctx context.Context) error
	SetMuted(muted bool)
}

// AudioPaused is delivered once for every audio element paused because
// another element started.
type AudioPaused struct {
	Audio Element
	By    Element
}

// Coordinator is the registry of participating elements. The zero value is
// not usable; use New.
type Coordinator struct {
	mu        sync.Mutex
	entries   map[*Registration]struct{}
	listeners map[int]func(AudioPaused)
	nextID    int
	threshold float64
	logger    *slog.Logger
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithLogger sets the logger used for autoplay diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithVisibilityThreshold overrides DefaultVisibilityThreshold.
func WithVisibilityThreshold(fraction float64) Option {
	return func(c *Coordinator) {
		if fraction > 0 && fraction <= 1 {
			c.threshold = fraction
		}
	}
}

// New creates an empty Coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		entries:   make(map[*Registration]struct{}),
		listeners: make(map[int]func(AudioPaused)),
		threshold: DefaultVisibilityThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAudioPaused subscribes fn to AudioPaused events. The returned cancel
// function unsubscribes; calling it more than once is harmless.
func (c *Coordinator) OnAudioPaused(fn func(AudioPaused)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// Len returns the number of registered elements.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RegisterOption configures a Registration
type RegisterOption func(*Registration)

// WithAutoplay opts the element into autoplay when it becomes visible.
func WithAutoplay() RegisterOption {
	return func(r *Registration) {
		r.autoplay = true
	}
}

// Register adds el to the registry. Close the returned Registration when the
// element goes away.
func (c *Coordinator) Register(el Element, opts ...RegisterOption) *Registration {
	r := &Registration{c: c, el: el}
	for _, opt := range opts {
		opt(r)
	}

	c.mu.Lock()
	c.entries[r] = struct{}{}
	c.mu.Unlock()
	return r
}

// pauseOthers pauses every playing element other than starter and notifies
// listeners about paused audio. Elements are paused outside the lock.
func (c *Coordinator) pauseOthers(starter *Registration) {
	c.mu.Lock()
	others := make([]Element, 0, len(c.entries))
	for r := range c.entries {
		if r != starter {
			others = append(others, r.el)
		}
	}
	c.mu.Unlock()

	var pausedAudio []Element
	for _, el := range others {
		if el.Paused() {
			continue
		}
		el.Pause()
		if el.Kind() == KindAudio {
			pausedAudio = append(pausedAudio, el)
		}
	}
	if len(pausedAudio) == 0 {
		return
	}

	c.mu.Lock()
	listeners := make([]func(AudioPaused), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, audio := range pausedAudio {
		ev := AudioPaused{Audio: audio, By: starter.el}
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// Registration is one element's membership in a Coordinator.
type Registration struct {
	c        *Coordinator
	el       Element
	autoplay bool

	mu     sync.Mutex
	closed bool
}

// Element returns the registered element.
func (r *Registration) Element() Element {
	return r.el
}

func (r *Registration) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close deregisters the element. After Close the element is neither paused
// by others nor autoplayed. Close is idempotent.
func (r *Registration) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.c.mu.Lock()
	delete(r.c.entries, r)
	r.c.mu.Unlock()
}

// Started applies the one-at-a-time rule for an element whose playback was
// started outside Play, for example by the user pressing the native control.
func (r *Registration) Started() {
	if r.isClosed() {
		return
	}
	r.c.pauseOthers(r)
}

// Play pauses every other playing element, then starts this one.
func (r *Registration) Play(ctx context.Context) error {
	if r.isClosed() {
		return ErrClosed
	}
	r.c.pauseOthers(r)
	return r.el.Play(ctx)
}

// Visible reports that fraction of the element's area is in the viewport.
// An opted-in, paused element at or above the threshold is played with
// sound; if that is rejected it is retried muted once. If both attempts are
// rejected the element stays paused and false is returned. Other elements
// are paused only after playback actually starts.
func (r *Registration) Visible(ctx context.Context, fraction float64) bool {
	if !r.autoplay || r.isClosed() || fraction < r.c.threshold || !r.el.Paused() {
		return false
	}

	r.el.SetMuted(false)
	err := r.el.Play(ctx)
	if err != nil {
		r.el.SetMuted(true)
		if mutedErr := r.el.Play(ctx); mutedErr != nil {
			r.c.logger.Debug("Media autoplay failed",
				"kind", r.el.Kind().String(),
				"error", err,
				"muted_error", mutedErr,
			)
			return false
		}
	}

	if r.isClosed() {
		return true
	}
	r.c.pauseOthers(r)
	return true
}

package media_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artist-site/pkg/sitecontent/media"
)

var errNotAllowed = errors.New("play() not allowed")

type fakeElement struct {
	mu     sync.Mutex
	kind   media.Kind
	paused bool
	muted  bool

	// reject decides whether a play attempt fails given the muted state
	reject func(muted bool) bool

	pauseCalls int
	playCalls  []bool // muted state of each attempt
}

func newElement(kind media.Kind) *fakeElement {
	return &fakeElement{kind: kind, paused: true}
}

func (f *fakeElement) Kind() media.Kind { return f.kind }

func (f *fakeElement) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeElement) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauseCalls++
	f.paused = true
}

func (f *fakeElement) Play(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls = append(f.playCalls, f.muted)
	if f.reject != nil && f.reject(f.muted) {
		return errNotAllowed
	}
	f.paused = false
	return nil
}

func (f *fakeElement) SetMuted(muted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = muted
}

func TestPlay_PausesOtherVideo(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	a := newElement(media.KindVideo)
	b := newElement(media.KindVideo)
	ra := c.Register(a)
	rb := c.Register(b)

	require.NoError(t, ra.Play(ctx))
	assert.False(t, a.Paused())

	require.NoError(t, rb.Play(ctx))
	assert.True(t, a.Paused())
	assert.False(t, b.Paused())
	assert.Equal(t, 0, b.pauseCalls)
}

func TestPlay_PausesAudioAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	song := newElement(media.KindAudio)
	video := newElement(media.KindVideo)
	idle := newElement(media.KindAudio)
	rs := c.Register(song)
	rv := c.Register(video)
	c.Register(idle)

	var events []media.AudioPaused
	cancel := c.OnAudioPaused(func(ev media.AudioPaused) {
		events = append(events, ev)
	})
	defer cancel()

	require.NoError(t, rs.Play(ctx))
	require.NoError(t, rv.Play(ctx))

	assert.True(t, song.Paused())
	assert.False(t, video.Paused())
	assert.Equal(t, 0, idle.pauseCalls, "paused elements are left alone")
	require.Len(t, events, 1)
	assert.Same(t, song, events[0].Audio)
	assert.Same(t, video, events[0].By)
}

func TestPlay_AudioPausesVideo(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	video := newElement(media.KindVideo)
	song := newElement(media.KindAudio)
	rv := c.Register(video)
	rs := c.Register(song)

	var events int
	c.OnAudioPaused(func(media.AudioPaused) { events++ })

	require.NoError(t, rv.Play(ctx))
	require.NoError(t, rs.Play(ctx))

	assert.True(t, video.Paused())
	assert.False(t, song.Paused())
	assert.Zero(t, events)
}

func TestStarted_AppliesRule(t *testing.T) {
	c := media.New()
	a := newElement(media.KindVideo)
	b := newElement(media.KindVideo)
	c.Register(a)
	rb := c.Register(b)

	require.NoError(t, a.Play(context.Background()))
	b.paused = false
	rb.Started()

	assert.True(t, a.Paused())
	assert.False(t, b.Paused())
}

func TestOnAudioPaused_Cancel(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	song := newElement(media.KindAudio)
	video := newElement(media.KindVideo)
	rs := c.Register(song)
	rv := c.Register(video)

	var events int
	cancel := c.OnAudioPaused(func(media.AudioPaused) { events++ })
	cancel()
	cancel()

	require.NoError(t, rs.Play(ctx))
	require.NoError(t, rv.Play(ctx))
	assert.True(t, song.Paused())
	assert.Zero(t, events)
}

func TestVisible_AutoplayUnmuted(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	other := newElement(media.KindVideo)
	ro := c.Register(other)
	el := newElement(media.KindVideo)
	r := c.Register(el, media.WithAutoplay())

	require.NoError(t, ro.Play(ctx))
	assert.True(t, r.Visible(ctx, 0.75))

	assert.Equal(t, []bool{false}, el.playCalls)
	assert.False(t, el.Paused())
	assert.True(t, other.Paused())
}

func TestVisible_RetriesMutedOnce(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	el := newElement(media.KindVideo)
	el.reject = func(muted bool) bool { return !muted }
	r := c.Register(el, media.WithAutoplay())

	assert.True(t, r.Visible(ctx, 0.5))
	assert.Equal(t, []bool{false, true}, el.playCalls)
	assert.True(t, el.muted)
	assert.False(t, el.Paused())
}

func TestVisible_GivesUpAfterMutedRejection(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	playing := newElement(media.KindAudio)
	rp := c.Register(playing)
	el := newElement(media.KindVideo)
	el.reject = func(bool) bool { return true }
	r := c.Register(el, media.WithAutoplay())

	require.NoError(t, rp.Play(ctx))
	assert.False(t, r.Visible(ctx, 1))

	assert.Equal(t, []bool{false, true}, el.playCalls, "no third attempt")
	assert.True(t, el.Paused())
	assert.False(t, playing.Paused(), "failed autoplay does not pause others")
}

func TestVisible_Ignored(t *testing.T) {
	ctx := context.Background()
	c := media.New()

	t.Run("below threshold", func(t *testing.T) {
		el := newElement(media.KindVideo)
		r := c.Register(el, media.WithAutoplay())
		assert.False(t, r.Visible(ctx, 0.49))
		assert.Empty(t, el.playCalls)
	})

	t.Run("not opted in", func(t *testing.T) {
		el := newElement(media.KindVideo)
		r := c.Register(el)
		assert.False(t, r.Visible(ctx, 1))
		assert.Empty(t, el.playCalls)
	})

	t.Run("already playing", func(t *testing.T) {
		el := newElement(media.KindVideo)
		el.paused = false
		r := c.Register(el, media.WithAutoplay())
		assert.False(t, r.Visible(ctx, 1))
		assert.Empty(t, el.playCalls)
	})

	t.Run("custom threshold", func(t *testing.T) {
		c := media.New(media.WithVisibilityThreshold(0.9))
		el := newElement(media.KindVideo)
		r := c.Register(el, media.WithAutoplay())
		assert.False(t, r.Visible(ctx, 0.6))
		assert.True(t, r.Visible(ctx, 0.9))
	})
}

func TestClose_StopsParticipation(t *testing.T) {
	ctx := context.Background()
	c := media.New()
	a := newElement(media.KindVideo)
	b := newElement(media.KindVideo)
	ra := c.Register(a, media.WithAutoplay())
	rb := c.Register(b)
	require.Equal(t, 2, c.Len())

	require.NoError(t, ra.Play(ctx))
	ra.Close()
	ra.Close()
	assert.Equal(t, 1, c.Len())

	require.NoError(t, rb.Play(ctx))
	assert.False(t, a.Paused(), "closed element is not paused by others")

	a.paused = true
	assert.False(t, ra.Visible(ctx, 1))
	assert.ErrorIs(t, ra.Play(ctx), media.ErrClosed)
}

func TestCoordinator_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := media.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := media.KindVideo
			if i%2 == 0 {
				kind = media.KindAudio
			}
			r := c.Register(newElement(kind), media.WithAutoplay())
			_ = r.Play(ctx)
			r.Visible(ctx, 1)
			r.Close()
		}(i)
	}
	wg.Wait()

	assert.Zero(t, c.Len())
}

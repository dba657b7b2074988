// Package audiobackend adapts a ports.AudioSource (the decoded BGM) to
// ebiten's audio output: the audio thread only pulls samples and
// drains small command queues, never allocates, and never touches
// chart or score-tick state directly. It is the home for the master
// bus stack (5-band EQ, compressor, a default-bypassed reverb send)
// and for the two effect-graph inserts and the single laser-driven
// filter insert that the game thread feeds one command at a time.
//
// Grounded on internal/audio/stream.go's StreamReader/Player pair and
// on player.go's eventWrapper, which chains a sequencer through an
// effect Chain and a master EQ5Band the same shape this backend reuses
// for a chart's BGM instead of a synthesized score.
package audiobackend

import (
	"io"

	intaudio "github.com/Drewol/kson-rs-sub000/internal/audio"
	"github.com/Drewol/kson-rs-sub000/internal/effects"
	"github.com/Drewol/kson-rs-sub000/ports"
)

// FilterParams is one laser-filter command: the RBJ peaking-filter
// tuning derived from the laser cursors, plus the wet mix. The game
// thread computes these via package filter and hands them to the
// backend once per frame; the audio thread applies the latest one
// before each buffer.
type FilterParams struct {
	Freq, Q, GainDB float64
	Mix             float32
}

// Backend plays one chart's BGM through the master bus. It implements
// ports.Mixer with a single playback slot, matching a gameplay scene's
// one-song-at-a-time model.
type Backend struct {
	sampleRate int

	graph      *effects.Graph
	filterNode *effects.Biquad

	masterEQ   *effects.EQ5Band
	compressor *effects.Compressor
	reverb     *effects.Reverb
	reverbMix  float32 // 0 = bypassed (default)

	laneCh  [2]chan effects.Effector
	filterCh chan FilterParams

	player *intaudio.Player
	source *meteredSource
}

// New builds a Backend around graph (the chart's pre-resolved effect
// graph, constructed once at load time) and the chart's
// camera-independent master EQ/compressor/reverb chain.
func New(sampleRate int, graph *effects.Graph) *Backend {
	b := &Backend{
		sampleRate: sampleRate,
		graph:      graph,
		filterNode: effects.NewBiquad(sampleRate, effects.BiquadPeaking, 1000, 1.0, 0),
		masterEQ:   effects.NewEQ5Band(sampleRate),
		compressor: effects.NewCompressor(sampleRate, -18, 3, 10, 150, 3),
		reverb:     effects.NewReverb(sampleRate, 0.4, 0.5, 1),
		laneCh:     [2]chan effects.Effector{make(chan effects.Effector, 1), make(chan effects.Effector, 1)},
		filterCh:   make(chan FilterParams, 1),
	}
	b.filterNode.SetMix(0)
	return b
}

// SetLaneEffector publishes the currently-active effect node for an FX
// lane (0 or 1). Called from the game thread once per frame after
// graph.ActiveNode; non-blocking, drops a stale pending value in favor
// of the newest one — an SPSC "latest wins" queue of depth 1.
func (b *Backend) SetLaneEffector(lane int, node effects.Effector) {
	if lane < 0 || lane > 1 {
		return
	}
	ch := b.laneCh[lane]
	select {
	case <-ch:
	default:
	}
	ch <- node
}

// SetFilterParams publishes the latest laser-filter tuning. Same
// latest-wins, non-blocking discipline as SetLaneEffector.
func (b *Backend) SetFilterParams(p FilterParams) {
	select {
	case <-b.filterCh:
	default:
	}
	b.filterCh <- p
}

// SetReverbMix sets the default-bypassed reverb send's wet level; at 0
// (the default) the audio thread skips the reverb node entirely.
func (b *Backend) SetReverbMix(mix float32) { b.reverbMix = mix }

// FilterTarget adapts Backend's command queue to the filter.Biquad
// interface: the game thread's filter.Controller calls SetParams and
// SetMix directly, as if it owned the biquad outright, but each call
// only ever publishes a FilterParams command through SetFilterParams.
// The audio thread applies the merged result once per buffer, so the
// laser-driven filter never mutates audio-thread state from the game
// thread.
type FilterTarget struct {
	b      *Backend
	params FilterParams
}

// NewFilterTarget returns a FilterTarget bound to this Backend, for
// handing to filter.NewController.
func (b *Backend) NewFilterTarget() *FilterTarget {
	return &FilterTarget{b: b}
}

func (t *FilterTarget) SetParams(freq, q, gainDB float64) {
	t.params.Freq, t.params.Q, t.params.GainDB = freq, q, gainDB
	t.b.SetFilterParams(t.params)
}

func (t *FilterTarget) SetMix(mix float32) {
	t.params.Mix = mix
	t.b.SetFilterParams(t.params)
}

// meteredSource pulls frames from a ports.AudioSource and runs each
// stereo frame through the two lane inserts, the laser filter, the
// master EQ, the compressor, and the optional reverb send — in that
// order: per-lane FX, then the laser filter, then the fixed master
// chain.
type meteredSource struct {
	src    ports.AudioSource
	b      *Backend
	lane   [2]effects.Effector
	frames [][2]float32
	eof    bool
}

func newMeteredSource(src ports.AudioSource, b *Backend) *meteredSource {
	return &meteredSource{src: src, b: b, lane: [2]effects.Effector{effects.NoOp{}, effects.NoOp{}}}
}

func (s *meteredSource) drainCommands() {
	for lane := 0; lane < 2; lane++ {
		select {
		case n := <-s.b.laneCh[lane]:
			s.lane[lane] = n
		default:
		}
	}
	select {
	case p := <-s.b.filterCh:
		s.b.filterNode.SetParams(p.Freq, p.Q, p.GainDB)
		s.b.filterNode.SetMix(p.Mix)
	default:
	}
}

// Process implements intaudio.SampleSource: dst is interleaved stereo
// float32.
func (s *meteredSource) Process(dst []float32) {
	s.drainCommands()
	frames := len(dst) / 2
	if cap(s.frames) < frames {
		s.frames = make([][2]float32, frames)
	}
	s.frames = s.frames[:frames]
	n, err := s.src.Read(s.frames)
	if err != nil && err != io.EOF {
		n = 0
	}
	if err == io.EOF {
		s.eof = true
	}
	for i := 0; i < frames; i++ {
		var l, r float32
		if i < n {
			l, r = s.frames[i][0], s.frames[i][1]
		}
		l, r = s.lane[0].Process(l, r)
		l, r = s.lane[1].Process(l, r)
		l, r = s.b.filterNode.Process(l, r)
		l, r = s.b.masterEQ.Process(l, r)
		l, r = s.b.compressor.Process(l, r)
		if s.b.reverbMix > 0 {
			wl, wr := s.b.reverb.Process(l, r)
			mix := s.b.reverbMix
			l += (wl - l) * mix
			r += (wr - r) * mix
		}
		dst[i*2], dst[i*2+1] = l, r
	}
}

func (s *meteredSource) Finished() bool { return s.eof }

// Add starts src playing through the master bus. Only one source may
// be active at a time; a second Add replaces the first.
func (b *Backend) Add(src ports.AudioSource) (int, error) {
	if b.player != nil {
		_ = b.player.Stop()
	}
	b.source = newMeteredSource(src, b)
	pl, err := intaudio.NewPlayer(b.sampleRate, b.source)
	if err != nil {
		return 0, err
	}
	b.player = pl
	b.player.Play()
	return 1, nil
}

// Remove stops the single playback slot. handle is ignored.
func (b *Backend) Remove(handle int) error {
	if b.player == nil {
		return nil
	}
	err := b.player.Stop()
	b.player = nil
	b.source = nil
	return err
}

// Position returns the current output position, used by
// audiosync.Controller.Reconcile to fold the decoder's own clock in.
func (b *Backend) Position() (ms float64, ok bool) {
	if b.player == nil {
		return 0, false
	}
	return float64(b.player.Position().Milliseconds()), true
}

// Command gamedemo is a terminal reference front-end for the gameplay
// core: a bubbletea program that plays the built-in demo chart,
// mapping a QWERTY keyboard to the six lane buttons and the laser
// sides, and rendering the per-frame RenderState as an ASCII lane
// view. The chart's BGM plays through internal/audiobackend's master
// bus (EQ, compressor, the two FX-lane inserts, and the laser filter),
// driven by ebiten's own audio context; a second, lower-level path — a
// raw ebitengine/oto/v3 context instead of ebiten's audio package —
// plays a short lead-in countdown click so the two real paths never
// compete for the output device at once, grounded on
// oisee-abytetracker's RealtimeOutput.
package main

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ebitengine/oto/v3"

	"github.com/Drewol/kson-rs-sub000/internal/audiobackend"
	"github.com/Drewol/kson-rs-sub000/internal/audiosync"
	"github.com/Drewol/kson-rs-sub000/internal/chart"
	"github.com/Drewol/kson-rs-sub000/internal/effects"
	"github.com/Drewol/kson-rs-sub000/internal/filter"
	"github.com/Drewol/kson-rs-sub000/internal/gauge"
	"github.com/Drewol/kson-rs-sub000/internal/gameplay"
	"github.com/Drewol/kson-rs-sub000/internal/result"
	"github.com/Drewol/kson-rs-sub000/ports"
)

const demoSampleRate = 48000

func main() {
	c := buildDemoChart()
	if err := c.Validate(); err != nil {
		log.Fatalf("demo chart failed validation: %v", err)
	}

	sync := audiosync.NewController()
	graph := effects.NewGraph(demoSampleRate, c, c.Audio.Effects)
	backend := audiobackend.New(demoSampleRate, graph)
	filterCtl := filter.NewController(backend.NewFilterTarget())
	loop := gameplay.New(c, gameplay.Config{SongID: "demo", DiffID: "exh", Gauge: gauge.KindNormal}, sync, filterCtl)

	tone := newToneSource(demoSampleRate)
	if _, err := backend.Add(tone); err != nil {
		log.Printf("audio output unavailable, running silent: %v", err)
	}

	click, err := newLeadInPlayer(demoSampleRate)
	if err != nil {
		log.Printf("lead-in click unavailable: %v", err)
	} else {
		defer click.Close()
	}

	m := newModel(loop, sync, backend, graph)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("gamedemo: %v", err)
	}
}

// keymap maps a QWERTY layout onto the six buttons, following
// abytetracker's piano-row convention of putting lane inputs on the
// home row.
var keymap = map[string]ports.Button{
	"d": ports.ButtonBTA,
	"f": ports.ButtonBTB,
	"j": ports.ButtonBTC,
	"k": ports.ButtonBTD,
	"c": ports.ButtonFXL,
	"n": ports.ButtonFXR,
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(16*time.Millisecond+666*time.Microsecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	loop    *gameplay.Loop
	sync    *audiosync.Controller
	backend *audiobackend.Backend
	graph   *effects.Graph
	held    map[ports.Button]bool
	state   ports.RenderState
	res     *result.Result
	start   time.Time
}

func newModel(loop *gameplay.Loop, sync *audiosync.Controller, backend *audiobackend.Backend, graph *effects.Graph) model {
	return model{loop: loop, sync: sync, backend: backend, graph: graph, held: make(map[ports.Button]bool)}
}

func (m model) Init() tea.Cmd {
	m.sync.Start(time.Now())
	return tea.Batch(tea.EnterAltScreen, tickCmd())
}

func (m model) heldFn() func(chart.LaneKind, int) bool {
	return func(kind chart.LaneKind, lane int) bool {
		switch kind {
		case chart.LaneBT:
			for btn, lane2 := range map[ports.Button]int{ports.ButtonBTA: 0, ports.ButtonBTB: 1, ports.ButtonBTC: 2, ports.ButtonBTD: 3} {
				if lane2 == lane && m.held[btn] {
					return true
				}
			}
		case chart.LaneFX:
			for btn, lane2 := range map[ports.Button]int{ports.ButtonFXL: 0, ports.ButtonFXR: 1} {
				if lane2 == lane && m.held[btn] {
					return true
				}
			}
		}
		return false
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if ms, ok := m.backend.Position(); ok {
			m.sync.Reconcile(now, ms)
		}
		m.loop.Tick(now, m.heldFn())
		m.state = m.loop.RenderState(now)
		m.backend.SetLaneEffector(0, m.graph.ActiveNode(0, m.state.CurrentPulse))
		m.backend.SetLaneEffector(1, m.graph.ActiveNode(1, m.state.CurrentPulse))
		if m.loop.Done() && m.res == nil {
			r := m.loop.Finish(m.state.CurrentMs)
			m.res = &r
		}
		return m, tickCmd()

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" || key == "q" || key == "esc" {
			m.loop.RequestClose()
			if m.res == nil {
				r := m.loop.Finish(m.state.CurrentMs)
				m.res = &r
			}
			return m, tea.Quit
		}
		if btn, ok := keymap[key]; ok && !m.held[btn] {
			m.held[btn] = true
			m.loop.HandlePress(btn, time.Now())
		}
		switch key {
		case "left":
			m.loop.HandleLaser(0, -0.05, time.Now())
		case "right":
			m.loop.HandleLaser(0, 0.05, time.Now())
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	if m.res != nil {
		return m.resultView()
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("GAMEDEMO")
	info := fmt.Sprintf(" │ pulse:%d  t=%.0fms  combo:%d  score:%d  gauge:%.2f",
		m.state.CurrentPulse, m.state.CurrentMs, m.state.Combo, m.state.DisplayScore, m.state.GaugeValue)

	var b strings.Builder
	b.WriteString(title + info + "\n\n")
	b.WriteString(m.laneView())
	b.WriteString("\n\n")
	b.WriteString(m.laserView())
	b.WriteString("\n\n [D F J K] BT   [C N] FX   [←→] Laser L   [Q/Esc] Quit\n")
	return b.String()
}

func (m model) laneView() string {
	names := []string{"BT_A", "BT_B", "BT_C", "BT_D", "FX_L", "FX_R"}
	btns := []ports.Button{ports.ButtonBTA, ports.ButtonBTB, ports.ButtonBTC, ports.ButtonBTD, ports.ButtonFXL, ports.ButtonFXR}
	var cells []string
	for i, name := range names {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		if m.held[btns[i]] {
			style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
		}
		cells = append(cells, style.Render(fmt.Sprintf("[%s]", name)))
	}
	return strings.Join(cells, " ")
}

func (m model) laserView() string {
	const width = 40
	row := func(cursor float64) string {
		pos := int(cursor * float64(width-1))
		var b strings.Builder
		for i := 0; i < width; i++ {
			if i == pos {
				b.WriteByte('o')
			} else {
				b.WriteByte('-')
			}
		}
		return b.String()
	}
	return fmt.Sprintf("L |%s|\nR |%s|", row(m.state.LaserCursor[0]), row(m.state.LaserCursor[1]))
}

func (m model) resultView() string {
	r := m.res
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render("RESULT")
	body := fmt.Sprintf("\n\n song:%s diff:%s\n score:%d\n gauge:%.2f (cleared=%v)\n max combo:%d\n duration:%.0fms\n manual exit:%v\n",
		r.SongID, r.DiffID, r.Score, r.GaugeValue, r.GaugeValue >= gauge.ClearThreshold, r.MaxCombo, r.DurationMs, r.ManualExit)
	return title + body + "\n [Q] Quit\n"
}

// toneSource is a synthetic sine-wave BGM standing in for a decoded
// chart audio file, so the demo has something to push through the
// master bus; the raw oto output path plays only the lead-in clicks.
type toneSource struct {
	sampleRate int
	phase      float64
}

func newToneSource(sampleRate int) *toneSource {
	return &toneSource{sampleRate: sampleRate}
}

func (t *toneSource) SampleRate() int                   { return t.sampleRate }
func (t *toneSource) TotalDuration() time.Duration       { return 0 }
func (t *toneSource) SkipDuration(d time.Duration) error { return nil }

func (t *toneSource) Read(dst [][2]float32) (int, error) {
	const freq = 220.0
	step := 2 * math.Pi * freq / float64(t.sampleRate)
	for i := range dst {
		v := float32(0.15 * math.Sin(t.phase))
		dst[i][0], dst[i][1] = v, v
		t.phase += step
		if t.phase > 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
	}
	return len(dst), nil
}

// leadInPlayer drives a raw oto.Context directly instead of going
// through ebiten's audio package, the low-level realtime path
// abytetracker's RealtimeOutput uses. It plays a short, fixed click
// track once and then sits idle, so it never competes with
// audiobackend.Backend's ebiten-audio-context BGM playback for the
// output device.
type leadInPlayer struct {
	ctx    *oto.Context
	player *oto.Player
}

// newLeadInPlayer builds and immediately starts playing a four-click
// countdown spanning one audiosync.LeadIn period.
func newLeadInPlayer(sampleRate int) (*leadInPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	track := buildLeadInClickTrack(sampleRate)
	player := ctx.NewPlayer(bytes.NewReader(track))
	player.Play()
	return &leadInPlayer{ctx: ctx, player: player}, nil
}

func (p *leadInPlayer) Close() error {
	return p.player.Close()
}

// buildLeadInClickTrack renders four evenly-spaced, decaying-sine
// clicks across one audiosync.LeadIn period, interleaved stereo
// float32 PCM, so the player counts in against the same lead-in the
// audio-sync controller arms at Start.
func buildLeadInClickTrack(sampleRate int) []byte {
	const (
		clicks   = 4
		freq     = 880.0
		clickLen = 0.05 // seconds
	)
	total := int(audiosync.LeadIn.Seconds() * float64(sampleRate))
	clickSamples := int(clickLen * float64(sampleRate))
	clickEvery := total / clicks

	buf := make([]byte, total*8)
	for i := 0; i < total; i++ {
		var v float32
		if rel := i % clickEvery; rel < clickSamples {
			decay := 1 - float64(rel)/float64(clickSamples)
			v = float32(0.4 * decay * math.Sin(2*math.Pi*freq*float64(rel)/float64(sampleRate)))
		}
		writeF32(buf[i*8:], v)
		writeF32(buf[i*8+4:], v)
	}
	return buf
}

func writeF32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

// Package tui is the live terminal view of a running simulation. A bubbletea
// program advances the simulator by a fixed step on every frame and redraws
// the server, its load and the incoming request stream.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Discover1998/DDoS-Project-DTA400/internal/tui/styles"
	"github.com/Discover1998/DDoS-Project-DTA400/internal/tui/widgets"
	"github.com/Discover1998/DDoS-Project-DTA400/sim"
)

// streamWidth is how many recent admission decisions the request lane shows.
const streamWidth = 48

// Options paces the watch view.
type Options struct {
	FPS  int     // frames per second
	Step float64 // simulated seconds advanced per frame
}

type frameMsg time.Time

// Model is the bubbletea model of the watch view. It owns the simulator:
// every call into it happens on the bubbletea update goroutine.
type Model struct {
	sim      *sim.Simulator
	step     int64
	interval time.Duration
	paused   bool
	width    int

	stream  []decision
	load    []float64
	dropped []float64
	frame   frameCounts
	quit    bool
}

type decision struct {
	kind    sim.RequestKind
	dropped bool
}

// frameCounts tallies decisions made during the last frame.
type frameCounts struct {
	normal, attack, dropped int
}

// New wires a model to s. Monitor ticks feed the sparklines and every
// admission decision feeds the request lane.
func New(s *sim.Simulator, opts Options) *Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Step <= 0 {
		opts.Step = 0.1
	}
	m := &Model{
		sim:      s,
		step:     sim.SecondsToTicks(opts.Step),
		interval: time.Second / time.Duration(opts.FPS),
		width:    80,
	}
	s.AddObserver(sim.ObserverFunc(func(t sim.Tick) {
		m.load = append(m.load, t.Load)
		m.dropped = append(m.dropped, float64(t.Dropped))
	}))
	s.ObserveRequests(func(req *sim.Request) {
		m.record(req)
	})
	return m
}

func (m *Model) record(req *sim.Request) {
	switch req.Kind {
	case sim.KindAttack:
		m.frame.attack++
	default:
		m.frame.normal++
	}
	if req.Dropped() {
		m.frame.dropped++
	}
	m.stream = append(m.stream, decision{kind: req.Kind, dropped: req.Dropped()})
	if len(m.stream) > streamWidth {
		m.stream = m.stream[len(m.stream)-streamWidth:]
	}
}

func (m *Model) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.nextFrame()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "a":
			m.sim.TriggerAttack(m.sim.Config.Attack.Clients)
		}
		return m, nil

	case frameMsg:
		if m.paused {
			return m, m.nextFrame()
		}
		m.frame = frameCounts{}
		m.sim.Advance(m.step)
		if m.sim.Done() {
			return m, tea.Quit
		}
		return m, m.nextFrame()
	}
	return m, nil
}

// Simulator returns the driven simulator.
func (m *Model) Simulator() *sim.Simulator { return m.sim }

// Interrupted reports whether the user quit before the horizon.
func (m *Model) Interrupted() bool { return m.quit }

// View implements tea.Model
func (m *Model) View() string {
	snap := m.sim.Snapshot()
	horizon := sim.TicksToSeconds(m.sim.Horizon)

	var b strings.Builder
	b.WriteString(styles.Title.Render("DDoS Simulation"))
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("   t = %6.1f s / %.0f s", snap.Time, horizon)))
	if m.paused {
		b.WriteString(styles.StatusAttack.Render("   PAUSED"))
	}
	b.WriteString("\n\n")

	if snap.AttackActive {
		b.WriteString(styles.StatusAttack.Render(fmt.Sprintf("● Under Attack (%d attackers)", snap.Attackers)))
	} else {
		b.WriteString(styles.StatusOK.Render("● Normal Status"))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		m.renderStream(),
		"  ",
		m.renderServer(snap),
	))
	b.WriteString("\n\n")

	barCfg := widgets.DefaultLoadBarConfig()
	barCfg.WarnThreshold = m.scalingThreshold()
	b.WriteString(styles.Label.Render("Load") + widgets.LoadBarWithLabel(snap.Load, barCfg) + "\n")
	b.WriteString(styles.Label.Render("Busy") + widgets.LoadBarWithLabel(snap.Utilization, barCfg) + "\n")

	sparkWidth := max(10, min(60, m.width-14))
	b.WriteString(styles.Label.Render("Load/s") + widgets.Sparkline(m.load, sparkWidth, 0, 100, styles.Warning) + "\n")
	b.WriteString(styles.Label.Render("Drops") + widgets.SparklineAuto(m.dropped, sparkWidth, styles.Danger) +
		fmt.Sprintf(" %d", snap.Dropped) + "\n")

	b.WriteString(styles.Subtitle.Render(fmt.Sprintf(
		"capacity %d   active %d   scaling %s   frame +%d normal +%d attack +%d dropped",
		snap.Capacity, snap.Active, snap.ScalingState, m.frame.normal, m.frame.attack, m.frame.dropped)))
	b.WriteString("\n")
	b.WriteString(styles.Help.Render("space pause • a launch attack • q quit"))
	return b.String()
}

func (m *Model) scalingThreshold() float64 {
	if m.sim.Config.Autoscaling.Enabled {
		return m.sim.Config.Autoscaling.Threshold
	}
	return styles.HighLoad
}

// renderStream draws recent decisions oldest to newest: normal traffic as
// dots, attack traffic as diamonds, drops as crosses.
func (m *Model) renderStream() string {
	var b strings.Builder
	pad := streamWidth - len(m.stream)
	b.WriteString(strings.Repeat(" ", pad))
	for _, d := range m.stream {
		switch {
		case d.dropped:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Danger).Render("✗"))
		case d.kind == sim.KindAttack:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).Render("◆"))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Normal).Render("•"))
		}
	}
	b.WriteString(" →")
	return b.String()
}

func (m *Model) renderServer(snap sim.Snapshot) string {
	style := styles.ServerHealthy
	if snap.Load >= styles.HighLoad {
		style = styles.ServerBusy
	}
	return style.Render(fmt.Sprintf("SERVER\n%d/%d slots", snap.Active, snap.Capacity))
}

// Run starts the watch view on s and blocks until the horizon is reached or
// the user quits.
func Run(s *sim.Simulator, opts Options) (*Model, error) {
	m := New(s, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return m, err
}

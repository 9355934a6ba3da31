package tui

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	confettiRows   = 4
	confettiFrames = 16
)

var confettiGlyphs = []rune{'✦', '✧', '•', '◦', '∗', '·'}

type particle struct {
	x     int
	y     int
	glyph rune
	color string
}

// confettiModel is the short celebratory overlay fired when the streak
// increments. It runs its own tick loop and goes inert when done.
type confettiModel struct {
	width     int
	frame     int
	particles []particle
}

func (c *confettiModel) start(width int) {
	if width < 10 {
		width = 10
	}
	c.width = width
	c.frame = 0
	c.particles = c.particles[:0]
	for i := 0; i < width/2; i++ {
		base, _ := colorful.Hex("#9d8cff")
		hue := base.BlendLuv(randomBright(), rand.Float64())
		c.particles = append(c.particles, particle{
			x:     rand.Intn(width),
			y:     -rand.Intn(confettiRows),
			glyph: confettiGlyphs[rand.Intn(len(confettiGlyphs))],
			color: hue.Hex(),
		})
	}
}

func randomBright() colorful.Color {
	return colorful.Hsv(rand.Float64()*360, 0.7, 1)
}

func (c *confettiModel) active() bool {
	return c.frame > 0 && c.frame <= confettiFrames
}

// step advances one frame; returns false when the animation is over.
func (c *confettiModel) step() bool {
	c.frame++
	if c.frame > confettiFrames {
		c.particles = nil
		return false
	}
	for i := range c.particles {
		c.particles[i].y++
		if rand.Intn(3) == 0 {
			c.particles[i].x += rand.Intn(3) - 1
		}
	}
	return true
}

func confettiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return confettiTickMsg{}
	})
}

func (c *confettiModel) view(theme Theme) string {
	grid := make([][]string, confettiRows)
	for r := range grid {
		grid[r] = make([]string, c.width)
		for x := range grid[r] {
			grid[r][x] = " "
		}
	}
	for _, p := range c.particles {
		row := p.y % (confettiRows * 2)
		if row < 0 || row >= confettiRows {
			continue
		}
		x := p.x
		if x < 0 || x >= c.width {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.color))
		grid[row][x] = style.Render(string(p.glyph))
	}
	lines := make([]string, confettiRows)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

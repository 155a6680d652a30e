// Package viewer provides the Bubble Tea interface for exploring synthesized gear tables.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/camkin/internal/litvin"
	"github.com/verte-zerg/camkin/internal/model"
	"github.com/verte-zerg/camkin/internal/ramp"
)

const (
	tabOverview = iota
	tabCurves
	tabPlanets
	tabMotion
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// builtMsg carries the result of one background synthesis. seq ties it to the request so
// results of superseded builds are dropped.
type builtMsg struct {
	seq    int
	tables *model.LitvinTables
	err    error
}

// Model implements the Bubble Tea viewer.
type Model struct {
	params  model.LitvinParameters
	workers int

	tables   *model.LitvinTables
	building bool
	seq      int
	errMsg   string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	planetTable table.Model

	width  int
	height int

	formMode   bool
	formInputs []textinput.Model
	formIndex  int
	formError  string
}

// NewModel constructs a viewer that synthesizes params on start.
func NewModel(params model.LitvinParameters, workers int) *Model {
	m := &Model{
		params:  params,
		workers: workers,
		tabs:    []string{"Overview", "Curves", "Planets", "Motion"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.planetTable = newPlanetTable()
	m.initForm()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.rebuild()
}

// Tables returns the most recent successful build, or nil.
func (m *Model) Tables() *model.LitvinTables {
	return m.tables
}

func (m *Model) rebuild() tea.Cmd {
	m.seq++
	m.building = true
	seq, params, workers := m.seq, m.params, m.workers
	return func() tea.Msg {
		tables, err := litvin.BuildTables(params, litvin.WithWorkers(workers))
		return builtMsg{seq: seq, tables: tables, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case builtMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.building = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.tables = msg.tables
		m.planetTable.SetRows(planetRows(m.tables))
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.formMode {
			return m.updateForm(msg)
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabPlanets {
			m.planetTable.Focus()
		} else {
			m.planetTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "p":
			m.params.RampProfile = nextProfile(m.params.RampProfile)
			return m, m.rebuild()
		case "/":
			return m.startForm()
		case "g", "home":
			if m.activeTab == tabPlanets {
				m.planetTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabPlanets {
				m.planetTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabPlanets {
			m.planetTable, cmd = m.planetTable.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if !m.formMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.planetTable.SetWidth(m.width)
	m.planetTable.SetHeight(max(bodyHeight-1, 1))
	for i := range m.formInputs {
		m.formInputs[i].Width = max(10, m.width-lipgloss.Width(m.formInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if m.activeTab == tabPlanets {
		m.planetTable.Focus()
	} else {
		m.planetTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts[i] = activeNavStyle.Render(tab)
		} else {
			parts[i] = inactiveNavStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	p := m.params
	summary := fmt.Sprintf("Params: ramp=%s  step=%g°  tol=%g mm  max_iter=%d  planets=%d",
		p.RampProfile, p.SamplingStepDeg, p.ArcResidualTolMM, p.MaxIter, p.PlanetCount)
	if m.building {
		summary += "  (synthesizing...)"
	}
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.formMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render(truncateLine("Nav: left/right  Scroll: up/down/g/G  Profile: p  Params: /  Quit: q", m.width))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if m.formMode {
		return m.renderForm()
	}
	if m.tables == nil {
		if m.building {
			return "Synthesizing..."
		}
		return "No tables."
	}
	if m.activeTab == tabPlanets {
		return tableMutedStyle.Render(m.planetTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	if m.tables == nil {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.tables, width))
	m.viewports[tabCurves].SetContent(renderCurves(m.tables, width))
	m.viewports[tabMotion].SetContent(renderMotion(m.tables, width))
}

func nextProfile(p ramp.Profile) ramp.Profile {
	all := ramp.All()
	for i, candidate := range all {
		if candidate == p {
			return all[(i+1)%len(all)]
		}
	}
	return ramp.Default
}

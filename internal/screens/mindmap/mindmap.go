package mindmap

import (
	"context"

	tea "charm.land/bubbletea/v2"

	mm "github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/screen"
	"github.com/studybuddy/studybuddy/internal/studyapi"
	"github.com/studybuddy/studybuddy/internal/ui/layout"
)

// Generation knob cycles. The backend accepts depth 2..8 and 10..200
// nodes; these are the steps worth offering in a terminal.
var (
	depthSteps = []int{2, 3, 4, 5, 6}
	nodeSteps  = []int{20, 40, 60, 80}
)

// MindmapScreen renders a generated mind map as a collapsible outline
// with an explanation pane for the selected topic.
type MindmapScreen struct {
	api studyapi.Service
	doc studyapi.Document

	outline  *mm.Outline
	cache    mm.ExplanationCache
	size     mm.Size
	title    string
	provider string

	rows         []mm.Row
	cursor       int
	scrollOffset int

	maxDepth int
	maxNodes int

	loading bool
	errMsg  string

	// genSeq stamps generation commands so a reply from a superseded
	// request is dropped.
	genSeq int
}

var _ screen.Screen = (*MindmapScreen)(nil)
var _ screen.KeyHintProvider = (*MindmapScreen)(nil)
var _ screen.ContextProvider = (*MindmapScreen)(nil)

// New creates a mind-map screen for the given document.
func New(api studyapi.Service, doc studyapi.Document) *MindmapScreen {
	return &MindmapScreen{
		api:      api,
		doc:      doc,
		size:     mm.SizeSmall,
		maxDepth: 4,
		maxNodes: 40,
	}
}

func (s *MindmapScreen) Init() tea.Cmd {
	return s.generate()
}

func (s *MindmapScreen) Title() string {
	return "Mind Map"
}

func (s *MindmapScreen) ContextLabel() string {
	return s.doc.DisplayName()
}

func (s *MindmapScreen) KeyHints() []layout.KeyHint {
	if s.loading || s.outline == nil {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open/Explain"},
		{Key: "E", Description: "Explain"},
		{Key: "S", Description: "Size"},
		{Key: "G", Description: "Regenerate"},
		{Key: "Esc", Description: "Back"},
	}
}

// generate issues a map generation request with the current knobs.
func (s *MindmapScreen) generate() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	s.genSeq++

	seq := s.genSeq
	in := studyapi.GenerateMindmapInput{
		DocumentID: s.doc.ID,
		MaxDepth:   s.maxDepth,
		MaxNodes:   s.maxNodes,
	}
	return func() tea.Msg {
		m, err := s.api.GenerateMindmap(context.Background(), in)
		return mapReadyMsg{Seq: seq, Map: m, Err: err}
	}
}

// explain issues an explanation request for topic at the current size.
func (s *MindmapScreen) explain(topic string) tea.Cmd {
	if topic == "" {
		return nil
	}
	s.cache.Request(topic, s.size)

	size := s.size
	in := studyapi.ExplainTopicInput{
		DocumentID: s.doc.ID,
		Topic:      topic,
		Size:       size,
	}
	return func() tea.Msg {
		text, err := s.api.ExplainTopic(context.Background(), in)
		return explanationMsg{Topic: topic, Size: size, Text: text, Err: err}
	}
}

func (s *MindmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mapReadyMsg:
		return s.handleMapReady(msg)

	case explanationMsg:
		s.cache.Apply(msg.Topic, msg.Size, msg.Text, msg.Err)
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MindmapScreen) handleMapReady(msg mapReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Seq != s.genSeq {
		return s, nil
	}
	s.loading = false
	if msg.Err != nil {
		s.errMsg = studyapi.UserMessage(msg.Err)
		return s, nil
	}

	s.title = msg.Map.Title
	s.provider = msg.Map.Provider
	s.outline = mm.NewOutline(msg.Map)
	s.cache.Clear()
	s.rows = s.outline.Rows()
	s.cursor = 0
	s.scrollOffset = 0
	return s, nil
}

func (s *MindmapScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.outline == nil {
		// Generation failed; only retry is meaningful.
		if msg.String() == "g" || msg.String() == "G" {
			return s, s.generate()
		}
		return s, nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "enter":
		return s.activateCurrent()
	case "e", "E":
		if row := s.currentRow(); row != nil {
			return s, s.explain(row.Node.Label)
		}
	case "s", "S":
		return s, s.toggleSize()
	case "d", "D":
		s.maxDepth = nextStep(depthSteps, s.maxDepth)
	case "n", "N":
		s.maxNodes = nextStep(nodeSteps, s.maxNodes)
	case "g", "G":
		return s, s.generate()
	}
	return s, nil
}

func (s *MindmapScreen) currentRow() *mm.Row {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return nil
	}
	return &s.rows[s.cursor]
}

// activateCurrent selects the node under the cursor: its label becomes
// the explained topic, and a branch additionally flips open or closed.
func (s *MindmapScreen) activateCurrent() (screen.Screen, tea.Cmd) {
	row := s.currentRow()
	if row == nil {
		return s, nil
	}
	if !row.HasChildren {
		return s, s.explain(row.Node.Label)
	}

	id := row.Node.ID
	s.outline.Toggle(id)
	s.rows = s.outline.Rows()
	for i, r := range s.rows {
		if r.Node.ID == id {
			s.cursor = i
			break
		}
	}
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	return s, s.explain(row.Node.Label)
}

// toggleSize flips small/medium and re-requests the current topic at
// the new size.
func (s *MindmapScreen) toggleSize() tea.Cmd {
	if s.size == mm.SizeSmall {
		s.size = mm.SizeMedium
	} else {
		s.size = mm.SizeSmall
	}
	if !s.cache.Selected() {
		return nil
	}
	return s.explain(s.cache.Topic())
}

// nextStep returns the step after v, wrapping; unknown values land on
// the first step.
func nextStep(steps []int, v int) int {
	for i, step := range steps {
		if step == v {
			return steps[(i+1)%len(steps)]
		}
	}
	return steps[0]
}

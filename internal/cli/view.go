package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tmarceau/croquis/pkg/errors"
	"github.com/tmarceau/croquis/pkg/pipeline"
	"github.com/tmarceau/croquis/pkg/render/ascii"
	"github.com/tmarceau/croquis/pkg/treebank"
)

// Viewer styles
var (
	viewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command, an interactive terminal browser for
// the trees of a treebank.
func (c *CLI) viewCommand() *cobra.Command {
	var format string
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a treebank's trees in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runView(cmd.Context(), input, format, keepGoing)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input dialect (default: guess)")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "skip unparsable trees with a warning")

	return cmd
}

func (c *CLI) runView(ctx context.Context, inputPath, format string, keepGoing bool) error {
	input, err := readInput(inputPath)
	if err != nil {
		return err
	}

	// The viewer draws every tree itself, so caching buys nothing here.
	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	if format == "" {
		format = c.Config.Format
	}
	result, err := runner.Execute(ctx, input, pipeline.Options{
		Format:    format,
		Outputs:   []string{pipeline.OutputASCII},
		KeepGoing: keepGoing,
	})
	if err != nil {
		return err
	}
	if len(result.Trees) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to view")
	}

	model := NewTreeViewModel(result.Trees)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// treePage is one tree prepared for display.
type treePage struct {
	Title string
	Text  string
	Lines []string
}

// TreeViewModel is the bubbletea model for browsing trees one at a time.
type TreeViewModel struct {
	Pages  []treePage
	Index  int
	Offset int
	Height int
}

// NewTreeViewModel renders every tree up front and returns a model starting
// at the first one.
func NewTreeViewModel(trees []*treebank.Tree) TreeViewModel {
	pages := make([]treePage, len(trees))
	for i, t := range trees {
		title := t.Meta.SentID
		if title == "" {
			title = fmt.Sprintf("tree %d", i+1)
		}
		pages[i] = treePage{
			Title: title,
			Text:  t.Meta.Text,
			Lines: strings.Split(ascii.Render(t), "\n"),
		}
	}
	return TreeViewModel{Pages: pages, Height: 20}
}

func (m TreeViewModel) Init() tea.Cmd {
	return nil
}

func (m TreeViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			if m.Index < len(m.Pages)-1 {
				m.Index++
				m.Offset = 0
			}
		case "left", "h", "p":
			if m.Index > 0 {
				m.Index--
				m.Offset = 0
			}
		case "down", "j":
			if m.Offset < m.maxOffset() {
				m.Offset++
			}
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "g":
			m.Offset = 0
		case "G":
			m.Offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 5
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Offset > m.maxOffset() {
			m.Offset = m.maxOffset()
		}
	}
	return m, nil
}

func (m TreeViewModel) maxOffset() int {
	max := len(m.Pages[m.Index].Lines) - m.Height
	if max < 0 {
		return 0
	}
	return max
}

func (m TreeViewModel) View() string {
	page := m.Pages[m.Index]

	var b strings.Builder
	b.WriteString(viewTitleStyle.Render(page.Title))
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Index+1, len(m.Pages))))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("←/→ tree  ↑/↓ scroll  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(page.Lines) {
		end = len(page.Lines)
	}
	for _, line := range page.Lines[m.Offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if page.Text != "" {
		b.WriteString("\n")
		b.WriteString(viewDimStyle.Render(page.Text))
		b.WriteString("\n")
	}
	return b.String()
}

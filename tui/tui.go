// Package tui is the interactive competitor console.
package tui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Stats is what the side panel shows about the loaded graph.
type Stats struct {
	Companies   int
	Commodities int
	Edges       int
	LastQuery   string
}

// TUI represents the terminal user interface
type TUI struct {
	app         *tview.Application
	logsView    *tview.TextView
	inputField  *tview.InputField
	statsView   *tview.TextView
	headerView  *tview.TextView
	commandChan chan string
	mu          sync.Mutex
	logBuffer   []string
	maxLogLines int
}

// New creates a new TUI instance
func New(title string) *TUI {
	t := &TUI{
		app:         tview.NewApplication(),
		commandChan: make(chan string, 10),
		maxLogLines: 1000,
	}

	t.headerView = tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(fmt.Sprintf("[::b]%s[::-] - Company / Commodity Competitor Graph", tview.Escape(title))).
		SetDynamicColors(true)
	t.headerView.SetBorder(true).SetBorderColor(tcell.ColorNames["blue"])

	t.statsView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	t.statsView.SetBorder(true).
		SetTitle(" Graph Statistics ").
		SetBorderColor(tcell.ColorNames["green"])
	t.statsView.SetText(renderStats(Stats{}))

	t.logsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			t.app.Draw()
		})
	t.logsView.SetBorder(true).
		SetTitle(" Logs ").
		SetBorderColor(tcell.ColorNames["yellow"])

	t.inputField = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0).
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				command := t.inputField.GetText()
				if command != "" {
					t.commandChan <- command
					t.inputField.SetText("")
				}
			}
		})
	t.inputField.SetBorder(true).
		SetTitle(" Command Input (Press Enter to submit, Ctrl+C to quit) ").
		SetBorderColor(tcell.ColorNames["cyan"])

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.headerView, 3, 0, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(t.logsView, 0, 3, false).
			AddItem(t.statsView, 40, 0, false),
			0, 1, false).
		AddItem(t.inputField, 3, 0, true)

	t.app.SetRoot(mainFlex, true).SetFocus(t.inputField)

	return t
}

// Start runs the application until Stop is called. The command channel is
// closed when it returns.
func (t *TUI) Start() error {
	defer close(t.commandChan)
	return t.app.Run()
}

// Stop stops the TUI application
func (t *TUI) Stop() {
	t.app.Stop()
}

// Commands returns the channel of submitted command lines.
func (t *TUI) Commands() <-chan string {
	return t.commandChan
}

// Log adds a log message to the logs view
func (t *TUI) Log(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.logBuffer = append(t.logBuffer, message)
	if len(t.logBuffer) > t.maxLogLines {
		t.logBuffer = t.logBuffer[len(t.logBuffer)-t.maxLogLines:]
	}
	lines := append([]string(nil), t.logBuffer...)

	t.app.QueueUpdateDraw(func() {
		t.logsView.Clear()
		for _, line := range lines {
			fmt.Fprintln(t.logsView, tview.Escape(line))
		}
		t.logsView.ScrollToEnd()
	})
}

// UpdateStats refreshes the statistics panel.
func (t *TUI) UpdateStats(s Stats) {
	text := renderStats(s)
	t.app.QueueUpdateDraw(func() {
		t.statsView.SetText(text)
	})
}

func renderStats(s Stats) string {
	text := fmt.Sprintf("[green::b]Companies:[-:-:-] %d\n", s.Companies)
	text += fmt.Sprintf("[green::b]Commodities:[-:-:-] %d\n", s.Commodities)
	text += fmt.Sprintf("[yellow::b]Edges:[-:-:-] %d\n", s.Edges)
	if s.LastQuery != "" {
		text += fmt.Sprintf("\n[cyan]Last query:[-] %s\n", tview.Escape(s.LastQuery))
	}
	text += "\n[white::b]Available Commands:[-:-:-]\n"
	text += "[gray]bridge <a> <b>, company <name>[-]\n"
	text += "[gray]default, stats[-]\n"
	text += "[gray]lookup, search, chapter[-]\n"
	text += "[gray]export <file>, help, exit[-]\n"
	return text
}

// Writer implements io.Writer for the TUI
type Writer struct {
	tui *TUI
}

// NewWriter creates a new TUI writer
func (t *TUI) NewWriter() *Writer {
	return &Writer{tui: t}
}

// Write implements io.Writer
func (w *Writer) Write(p []byte) (n int, err error) {
	message := string(p)
	if len(message) > 0 && message[len(message)-1] == '\n' {
		message = message[:len(message)-1]
	}
	w.tui.Log(message)
	return len(p), nil
}

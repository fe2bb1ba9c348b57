package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	QueueView ViewState = iota
	ConfirmView
	UploadView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	queue     *tasks.UploadQueue
	width     int
	height    int
	queueList list.Model
	eventChan chan tasks.Event
	lastEvent tasks.Event
	err       error
	help      help.Model
	keys      keyMap
}

type queueEventMsg tasks.Event

type uploadDoneMsg struct{}

// NewModel creates a new TUI model over a populated upload queue.
func NewModel(ctx context.Context, queue *tasks.UploadQueue) *Model {
	m := &Model{
		ctx:   ctx,
		view:  QueueView,
		queue: queue,
		help:  help.New(),
		keys:  newKeyMap(),
	}
	m.queueList = list.New(queueListItems(queue.Items()), list.NewDefaultDelegate(), 0, 0)
	m.queueList.Title = "Upload Queue"
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.queueList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case QueueView:
			return m.handleQueueKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case queueEventMsg:
		m.lastEvent = tasks.Event(msg)
		m.queueList.SetItems(queueListItems(m.queue.Items()))
		if m.lastEvent.Kind == tasks.EventQueueComplete {
			m.view = ResultView
		}
		return m, m.waitForEvent()

	case uploadDoneMsg:
		m.eventChan = nil
		m.view = ResultView
		return m, nil
	}

	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case QueueView:
		return m.renderQueue()
	case ConfirmView:
		return m.renderConfirm()
	case UploadView:
		return m.renderUpload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "d":
		if selected, ok := m.queueList.SelectedItem().(queueItem); ok {
			m.queue.Remove(selected.item.ID)
			m.queueList.SetItems(queueListItems(m.queue.Items()))
		}
		return m, nil
	case "enter":
		if m.queue.Len() > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.queueList, cmd = m.queueList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = QueueView
		return m, nil
	case "y":
		m.view = UploadView
		return m, m.startUpload()
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		retried := 0
		for _, item := range m.queue.Items() {
			if item.Status == models.StatusError {
				if err := m.queue.Retry(item.ID); err == nil {
					retried++
				}
			}
		}
		if retried == 0 {
			return m, nil
		}
		m.queueList.SetItems(queueListItems(m.queue.Items()))
		m.view = UploadView
		return m, m.startUpload()
	}
	return m, nil
}

// startUpload bridges the queue's synchronous event callback onto the
// bubbletea message loop through a buffered channel.
func (m *Model) startUpload() tea.Cmd {
	ch := make(chan tasks.Event, 64)
	m.eventChan = ch

	go func() {
		m.queue.Process(m.ctx, func(e tasks.Event) { ch <- e })
		close(ch)
	}()

	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return uploadDoneMsg{}
		}
		event, ok := <-m.eventChan
		if !ok {
			return uploadDoneMsg{}
		}
		return queueEventMsg(event)
	}
}

func (m *Model) renderQueue() string {
	uploadKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload all"))
	helpKeys := []key.Binding{uploadKey, m.keys.remove, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.queueList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Upload %d file(s)?", m.queue.Len()))

	var info string
	for i, item := range m.queue.Items() {
		info += fmt.Sprintf("%d. %s - %s\n", i+1, item.Metadata.Artist, item.Metadata.Title)
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Uploading")

	var status string
	if m.lastEvent.Item != nil {
		status = fmt.Sprintf("%s (%d%%)", m.lastEvent.Item.Metadata.Title, m.lastEvent.Item.Progress)
	} else {
		status = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, status, m.queueList.View())
}

func (m *Model) renderResult() string {
	done, failed := 0, 0
	var failures string
	for _, item := range m.queue.Items() {
		switch item.Status {
		case models.StatusComplete:
			done++
		case models.StatusError:
			failed++
			failures += fmt.Sprintf("\n  • %s - %s: %s", item.Metadata.Artist, item.Metadata.Title, item.Err)
		}
	}

	var title string
	if failed == 0 {
		title = styles.ok.Render("✓ Upload Complete!")
	} else {
		title = styles.warn.Render(fmt.Sprintf("Upload finished with %d failure(s)", failed))
	}

	info := fmt.Sprintf("\nUploaded: %d\nFailed: %d", done, failed)
	if failures != "" {
		info += fmt.Sprintf("\n\n%s%s", styles.err.Render("Failed:"), failures)
	}

	helpKeys := []key.Binding{m.keys.retry, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

// Package tui provides a Bubble Tea terminal user interface for the
// spotify-scraper: scrape a URL, review the extracted record, then
// optionally download the previews it references.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/spotify-scraper/internal/config"
	"github.com/handiism/spotify-scraper/internal/download"
	"github.com/handiism/spotify-scraper/internal/http"
	"github.com/handiism/spotify-scraper/internal/model"
	"github.com/handiism/spotify-scraper/internal/spotify"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1DB954")).
			Padding(1, 2)

	entityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScraping
	StateRecord
	StateQueueing
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	scraper   *spotify.Scraper
	logs      []LogEntry
	record    any
	sets      []string
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// Download manager reference
	manager    *download.Manager
	progressCh chan download.ProgressEvent

	// Download progress
	totalFiles      int32
	downloadedFiles int32
	totalBytes      int64
	receivedBytes   int64

	// Options
	playlist bool
	covers   bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "https://open.spotify.com/track/..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	settings := config.DefaultSettings()
	client := http.NewClientWithOptions(settings.ClientOptions())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		scraper:   spotify.NewScraper(client, nil),
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when a download progress event arrives.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// ScrapeDoneMsg is sent when scraping completes.
	ScrapeDoneMsg struct {
		Record any
		Err    error
	}

	// QueueDoneMsg is sent when the record has been expanded into
	// download jobs.
	QueueDoneMsg struct {
		Sets []string
		Err  error
	}

	// DownloadDoneMsg is sent when all downloads complete.
	DownloadDoneMsg struct {
		Received int64
		Total    int64
		Files    int32
		TotalF   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput || m.state == StateRecord {
				return m, tea.Quit
			}
			if m.state == StateScraping || m.state == StateQueueing || m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateScraping
				return m, tea.Batch(m.scrapeURL(), m.spinner.Tick)
			}

		case "d":
			if m.state == StateRecord && m.record != nil {
				return m.beginQueueing()
			}

		case "p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}

		case "c":
			if m.state == StateInput {
				m.covers = !m.covers
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateRecord || m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateRecord || m.state == StateComplete || m.state == StateError {
				// Reset for a new URL
				m.state = StateInput
				m.logs = nil
				m.record = nil
				m.sets = nil
				m.err = nil
				m.downloadedFiles = 0
				m.totalFiles = 0
				m.receivedBytes = 0
				m.totalBytes = 0
				m.manager = nil
				m.progressCh = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			cmds = append(cmds, m.waitForProgress())
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}
		cmds = append(cmds, m.waitForProgress())

	case ScrapeDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.record = msg.Record
			m.state = StateRecord
		}

	case QueueDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.sets = msg.Sets
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(), m.tickProgress())
		}

	case DownloadDoneMsg:
		m.receivedBytes = msg.Received
		m.totalBytes = msg.Total
		m.downloadedFiles = msg.Files
		m.totalFiles = msg.TotalF
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateDownloading {
			received, total, files, totalFiles := m.manager.GetProgress()
			m.receivedBytes = received
			m.totalBytes = total
			m.downloadedFiles = files
			m.totalFiles = totalFiles

			// Calculate percentage and animate progress bar
			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForProgress reads the next download progress event.
func (m Model) waitForProgress() tea.Cmd {
	ch := m.progressCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Spotify Scraper"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Extract metadata from the Spotify web player"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScraping:
		b.WriteString(m.viewScraping())
	case StateRecord:
		b.WriteString(m.viewRecord())
	case StateQueueing:
		b.WriteString(m.viewQueueing())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a Spotify URL, URI or bare ID:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	// Options
	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[x]"
	}
	coversCheck := "[ ]"
	if m.covers {
		coversCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Download options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (p)\n", playlistCheck))
	b.WriteString(fmt.Sprintf("  %s Save cover art (c)\n", coversCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScraping() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scraping page..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRecord() string {
	var b strings.Builder

	lines := entitySummary(m.record)
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewQueueing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Queueing previews..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if len(m.sets) > 0 {
		b.WriteString(successStyle.Render("Downloading:"))
		b.WriteString("\n")
		for _, set := range m.sets {
			b.WriteString(entityStyle.Render(fmt.Sprintf("  ♪ %s", set)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Progress bar
	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.downloadedFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | Downloaded: %.2f MB",
		m.downloadedFiles,
		m.totalFiles,
		float64(m.receivedBytes)/1024/1024,
	)))
	b.WriteString("\n\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	box := boxStyle.Render(fmt.Sprintf(
		"Download complete\n\n"+
			"Files: %d\n"+
			"Size: %.2f MB",
		m.downloadedFiles,
		float64(m.receivedBytes)/1024/1024,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: scrape • p: playlist • c: covers • v: verbose • esc: quit"
	case StateScraping, StateQueueing, StateDownloading:
		return "esc: cancel"
	case StateRecord:
		return "d: download previews • r: new URL • q: quit"
	case StateComplete, StateError:
		return "r: new URL • q: quit"
	}
	return ""
}

// scrapeURL scrapes the entered URL in the background.
func (m *Model) scrapeURL() tea.Cmd {
	raw := strings.TrimSpace(m.textInput.Value())
	scraper := m.scraper
	ctx := m.ctx

	return func() tea.Msg {
		c, err := spotify.Classify(raw)
		if err != nil {
			return ScrapeDoneMsg{Err: err}
		}

		var record any
		var recordErr string

		switch c.Type {
		case spotify.TypeTrack:
			r, err := scraper.Track(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		case spotify.TypeAlbum:
			r, err := scraper.Album(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		case spotify.TypeArtist:
			r, err := scraper.Artist(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		case spotify.TypePlaylist:
			r, err := scraper.Playlist(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		case spotify.TypeEpisode:
			r, err := scraper.Episode(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		case spotify.TypeShow:
			r, err := scraper.Show(ctx, raw)
			if err != nil {
				return ScrapeDoneMsg{Err: err}
			}
			record, recordErr = r, r.Error
		default:
			return ScrapeDoneMsg{Err: fmt.Errorf("unsupported entity type %q", c.Type)}
		}

		if recordErr != "" {
			return ScrapeDoneMsg{Err: errors.New(recordErr)}
		}
		return ScrapeDoneMsg{Record: record}
	}
}

// beginQueueing builds the download manager and starts expanding the
// record into preview jobs.
func (m Model) beginQueueing() (tea.Model, tea.Cmd) {
	m.settings.CreatePlaylist = m.playlist
	m.settings.SaveCovers = m.covers

	ch := make(chan download.ProgressEvent, 64)
	m.progressCh = ch
	m.manager = download.NewManager(m.settings, m.scraper, func(event download.ProgressEvent) {
		select {
		case ch <- event:
		default:
			// Drop events rather than stall a download on a slow UI.
		}
	})
	m.state = StateQueueing
	m.logs = nil

	return m, tea.Batch(m.queueRecord(), m.spinner.Tick, m.waitForProgress())
}

// queueRecord expands the scraped record into download jobs.
func (m *Model) queueRecord() tea.Cmd {
	manager := m.manager
	record := m.record
	ctx := m.ctx

	return func() tea.Msg {
		var err error
		switch r := record.(type) {
		case *model.Track:
			err = manager.AddTrack(ctx, r)
		case *model.Album:
			err = manager.AddAlbum(ctx, r)
		case *model.Playlist:
			err = manager.AddPlaylist(ctx, r)
		case *model.Artist:
			err = manager.AddArtist(ctx, r)
		case *model.Episode:
			err = manager.AddEpisode(ctx, r)
		case *model.Show:
			err = manager.AddShow(ctx, r)
		default:
			err = fmt.Errorf("nothing downloadable in this record")
		}
		if err != nil {
			return QueueDoneMsg{Err: err}
		}
		return QueueDoneMsg{Sets: manager.QueuedSets()}
	}
}

// startDownload runs the queued downloads in the background.
func (m *Model) startDownload() tea.Cmd {
	manager := m.manager
	ch := m.progressCh
	ctx := m.ctx

	return func() tea.Msg {
		if manager == nil {
			return DownloadDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.StartDownloads(ctx)
		if ch != nil {
			close(ch)
		}
		received, total, files, totalFiles := manager.GetProgress()

		return DownloadDoneMsg{
			Received: received,
			Total:    total,
			Files:    files,
			TotalF:   totalFiles,
			Err:      err,
		}
	}
}

// entitySummary renders the scraped record as aligned key/value lines.
func entitySummary(record any) []string {
	switch r := record.(type) {
	case *model.Track:
		lines := []string{
			"Track     " + r.Name,
			"Artist    " + r.ArtistNames(),
		}
		if r.Album.Name != "" {
			lines = append(lines, "Album     "+r.Album.Name)
		}
		lines = append(lines, "Length    "+formatDuration(r.DurationMS))
		if r.PreviewURL != "" {
			lines = append(lines, "Preview   available")
		} else {
			lines = append(lines, "Preview   none")
		}
		if len(r.Lyrics) > 0 {
			lines = append(lines, fmt.Sprintf("Lyrics    %d lines", len(r.Lyrics)))
		}
		return lines

	case *model.Album:
		lines := []string{
			"Album     " + r.Name,
			"Artist    " + r.ArtistNames(),
		}
		if r.ReleaseDate != "" {
			lines = append(lines, "Released  "+r.ReleaseDate)
		}
		total := r.TotalTracks
		if total == 0 {
			total = len(r.Tracks)
		}
		lines = append(lines, fmt.Sprintf("Tracks    %d (%d listed)", total, len(r.Tracks)))
		return lines

	case *model.Artist:
		lines := []string{"Artist    " + r.Name}
		if r.MonthlyListeners != nil {
			lines = append(lines, fmt.Sprintf("Monthly   %d listeners", *r.MonthlyListeners))
		}
		if r.Followers != nil {
			lines = append(lines, fmt.Sprintf("Followers %d", *r.Followers))
		}
		lines = append(lines, fmt.Sprintf("Top       %d tracks listed", len(r.TopTracks)))
		return lines

	case *model.Playlist:
		lines := []string{"Playlist  " + r.Name}
		if r.Owner != nil {
			lines = append(lines, "By        "+r.Owner.Name)
		}
		lines = append(lines, fmt.Sprintf("Tracks    %d listed", len(r.Tracks)))
		if r.Followers != nil {
			lines = append(lines, fmt.Sprintf("Followers %d", *r.Followers))
		}
		return lines

	case *model.Episode:
		lines := []string{"Episode   " + r.Name}
		if r.Show != nil {
			lines = append(lines, "Show      "+r.Show.Name)
		}
		if r.ReleaseDate != "" {
			lines = append(lines, "Released  "+r.ReleaseDate)
		}
		lines = append(lines, "Length    "+formatDuration(r.DurationMS))
		if r.AudioPreviewURL != "" {
			lines = append(lines, "Preview   available")
		} else {
			lines = append(lines, "Preview   none")
		}
		return lines

	case *model.Show:
		lines := []string{"Show      " + r.Name}
		if r.Publisher != "" {
			lines = append(lines, "Publisher "+r.Publisher)
		}
		total := r.TotalEpisodes
		if total == 0 {
			total = len(r.Episodes)
		}
		lines = append(lines, fmt.Sprintf("Episodes  %d (%d listed)", total, len(r.Episodes)))
		if len(r.Categories) > 0 {
			lines = append(lines, "Topics    "+strings.Join(r.Categories, ", "))
		}
		return lines
	}

	return []string{"Unknown record"}
}

// formatDuration renders milliseconds as m:ss or h:mm:ss.
func formatDuration(ms int) string {
	total := ms / 1000
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

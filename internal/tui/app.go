// internal/tui/app.go
//
// This is the terminal wizard a reviewer uses to grade one presenter at a time.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: the App, wrapping a session.Session
// 2. Update: key presses and submission results move the session along
// 3. View: one screen per session phase plus the shared log panel
//
// The flow is: Login -> Grading -> Submitting -> Result -> Login

package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/peerreview/internal/config"
	"github.com/kingrea/peerreview/internal/journal"
	"github.com/kingrea/peerreview/internal/logbook"
	"github.com/kingrea/peerreview/internal/rubric"
	"github.com/kingrea/peerreview/internal/scoring"
	"github.com/kingrea/peerreview/internal/session"
	"github.com/kingrea/peerreview/internal/submission"
)

const (
	focusReviewer = iota
	focusPresenter
)

// Recorder stores each submission attempt.
type Recorder interface {
	Record(ctx context.Context, e *journal.Entry) error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithGateway replaces the HTTP form gateway.
func WithGateway(g submission.Gateway) AppOption {
	return func(a *App) {
		if g != nil {
			a.gateway = g
		}
	}
}

// WithRecorder replaces the SQLite journal.
func WithRecorder(r Recorder) AppOption {
	return func(a *App) {
		if r != nil {
			a.recorder = r
		}
	}
}

// WithCatalog grades against catalog instead of the configured rubric.
func WithCatalog(catalog rubric.Catalog) AppOption {
	return func(a *App) {
		a.catalog = catalog
		a.hasCatalog = true
	}
}

// WithSessionOptions passes extra options to the underlying session.
func WithSessionOptions(opts ...session.Option) AppOption {
	return func(a *App) {
		a.sessionOpts = append(a.sessionOpts, opts...)
	}
}

// submissionFinishedMsg carries the collector's answer back into Update.
type submissionFinishedMsg struct {
	receipt submission.Receipt
	err     error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config      *config.Config
	catalog     rubric.Catalog
	hasCatalog  bool
	session     *session.Session
	sessionOpts []session.Option
	gateway     submission.Gateway
	recorder    Recorder
	logbook     *logbook.Logbook
	timeout     time.Duration
	keys        keyMap

	// UI components
	reviewerInput  textinput.Model
	presenterInput textinput.Model
	loginFocus     int
	cursor         int
	comment        textarea.Model
	editing        bool
	spinner        spinner.Model
	help           help.Model

	alert     string // blocking message, dismissed with enter or esc
	statusMsg string

	width  int
	height int
}

// NewApp creates a new App instance for the project rooted at projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	app := &App{
		config:  cfg,
		timeout: cfg.CollectorTimeout(),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if !app.hasCatalog {
		catalog, err := cfg.Catalog()
		if err != nil {
			return nil, err
		}
		app.catalog = catalog
	}

	lb, err := logbook.New(cfg.LogPath())
	if err == nil {
		app.logbook = lb
	}
	if app.gateway == nil {
		var gwOpts []submission.Option
		if lb != nil {
			gwOpts = append(gwOpts, submission.WithLogger(lb))
		}
		app.gateway = submission.NewFormGateway(cfg.CollectorSettings(), gwOpts...)
	}
	if app.recorder == nil && cfg.JournalEnabled() {
		store, err := journal.Open(context.Background(), cfg.JournalPath())
		if err != nil {
			app.logWarn("Journal unavailable: %v", err)
		} else {
			app.recorder = store
		}
	}

	policy := session.KeepReviewer
	if !cfg.KeepReviewerOnReset() {
		policy = session.ClearReviewer
	}
	sessOpts := append([]session.Option{
		session.WithResetPolicy(policy),
		session.WithPlaceholder(cfg.DefaultComment()),
	}, app.sessionOpts...)
	app.session = session.New(app.catalog, sessOpts...)

	app.reviewerInput = newNameInput("Your name", "Reviewer  ")
	app.presenterInput = newNameInput("Presenter's name", "Presenter ")
	app.reviewerInput.Focus()
	app.comment = newCommentArea()
	app.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	app.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))

	app.logInfo("Session opened · rubric %s (%d criteria)", app.catalog.Name, app.catalog.Len())
	return app, nil
}

func newNameInput(placeholder, prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = prompt
	in.CharLimit = 0
	return in
}

func newCommentArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Comment for this criterion (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetHeight(3)
	return ta
}

// Close releases the journal and log file.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.recorder.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if a.logbook != nil {
		a.logInfo("Session closed")
		errs = append(errs, a.logbook.Close())
	}
	return errors.Join(errs...)
}

// Session exposes the wizard state, mainly for the CLI and tests.
func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.comment.SetWidth(max(20, msg.Width-10))
		a.help.Width = msg.Width
		return a, nil

	case submissionFinishedMsg:
		return a.finishSubmission(msg)

	case spinner.TickMsg:
		if a.session.Phase() != session.PhaseSubmitting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.alert != "" {
			switch msg.Type {
			case tea.KeyEnter, tea.KeyEsc:
				a.alert = ""
			}
			return a, nil
		}
		switch a.session.Phase() {
		case session.PhaseLogin:
			return a.updateLogin(msg)
		case session.PhaseGrading:
			return a.updateGrading(msg)
		case session.PhaseResult:
			return a.updateResult(msg)
		default:
			return a, nil
		}
	}

	return a, a.forward(msg)
}

// forward passes non-key messages such as cursor blinks to the focused widget.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.session.Phase() {
	case session.PhaseLogin:
		if a.loginFocus == focusReviewer {
			a.reviewerInput, cmd = a.reviewerInput.Update(msg)
		} else {
			a.presenterInput, cmd = a.presenterInput.Update(msg)
		}
	case session.PhaseGrading:
		if a.editing {
			a.comment, cmd = a.comment.Update(msg)
		}
	}
	return cmd
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Resume) && a.session.Ledger().Scored() > 0:
		// Scores survive the trip back to the names screen; esc returns to them.
		return a.startGrading()
	case key.Matches(msg, a.keys.Cancel):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NextField):
		return a, a.focusLogin(focusPresenter)
	case key.Matches(msg, a.keys.PrevField):
		return a, a.focusLogin(focusReviewer)
	case key.Matches(msg, a.keys.Confirm):
		if a.loginFocus == focusReviewer {
			return a, a.focusLogin(focusPresenter)
		}
		return a.startGrading()
	}
	return a, a.forward(msg)
}

func (a *App) focusLogin(field int) tea.Cmd {
	a.loginFocus = field
	if field == focusReviewer {
		a.presenterInput.Blur()
		return a.reviewerInput.Focus()
	}
	a.reviewerInput.Blur()
	return a.presenterInput.Focus()
}

func (a *App) startGrading() (tea.Model, tea.Cmd) {
	err := a.session.StartGrading(a.reviewerInput.Value(), a.presenterInput.Value())
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		a.alert = verr.Message
		if verr.Field == "reviewer" {
			return a, a.focusLogin(focusReviewer)
		}
		return a, a.focusLogin(focusPresenter)
	case err != nil:
		a.statusMsg = err.Error()
		return a, nil
	}
	a.reviewerInput.Blur()
	a.presenterInput.Blur()
	a.cursor = 0
	a.statusMsg = fmt.Sprintf("Grading %s", strings.TrimSpace(a.session.Presenter()))
	a.logInfo("Grading · %s reviewing %s", strings.TrimSpace(a.session.Reviewer()), strings.TrimSpace(a.session.Presenter()))
	return a, nil
}

func (a *App) currentCriterion() rubric.Criterion {
	return a.catalog.Criteria[a.cursor]
}

func (a *App) updateGrading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.editing {
		if key.Matches(msg, a.keys.DoneEdit) {
			a.saveComment()
			return a, nil
		}
		var cmd tea.Cmd
		a.comment, cmd = a.comment.Update(msg)
		return a, cmd
	}

	crit := a.currentCriterion()
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < a.catalog.Len()-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Score):
		value := int(msg.Runes[0] - '0')
		if err := a.session.Rate(crit.ID, value); err != nil {
			a.statusMsg = err.Error()
		}
	case key.Matches(msg, a.keys.Lower):
		a.step(crit, -1)
	case key.Matches(msg, a.keys.Raise):
		a.step(crit, 1)
	case key.Matches(msg, a.keys.Comment):
		return a, a.beginComment(crit)
	case key.Matches(msg, a.keys.Submit):
		return a.submit()
	case key.Matches(msg, a.keys.Back):
		if err := a.session.BackToLogin(); err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.statusMsg = "Edit names, then press enter or esc to continue grading"
		return a, a.focusLogin(focusReviewer)
	}
	return a, nil
}

func (a *App) step(crit rubric.Criterion, delta int) {
	if _, err := a.session.Step(crit.ID, delta); err != nil {
		a.statusMsg = err.Error()
	}
}

func (a *App) beginComment(crit rubric.Criterion) tea.Cmd {
	text, _ := a.session.Ledger().Comment(crit.ID)
	a.comment.Reset()
	a.comment.SetValue(text)
	a.editing = true
	return a.comment.Focus()
}

func (a *App) saveComment() {
	crit := a.currentCriterion()
	if err := a.session.Comment(crit.ID, strings.TrimSpace(a.comment.Value())); err != nil {
		a.statusMsg = err.Error()
	}
	a.comment.Blur()
	a.editing = false
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	payload, err := a.session.Submit()
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		a.alert = verr.Message
		if missing := a.session.Ledger().Missing(a.catalog); len(missing) > 0 {
			a.cursor = a.indexOf(missing[0].ID)
		}
		a.logWarn("Submit blocked · %d criteria unscored", len(a.session.Ledger().Missing(a.catalog)))
		return a, nil
	case err != nil:
		a.statusMsg = err.Error()
		a.logError("Submit failed: %v", err)
		return a, nil
	}
	a.statusMsg = "Submitting..."
	a.logInfo("Submitting review of %s · total %s", strings.TrimSpace(payload.Presenter), payload.TotalString())
	return a, tea.Batch(a.spinner.Tick, a.dispatch(payload))
}

func (a *App) indexOf(id string) int {
	for i, crit := range a.catalog.Criteria {
		if crit.ID == id {
			return i
		}
	}
	return 0
}

// dispatch sends payload off the UI goroutine and reports back with submissionFinishedMsg.
func (a *App) dispatch(payload submission.Payload) tea.Cmd {
	gateway := a.gateway
	timeout := a.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		receipt, err := gateway.Submit(ctx, payload)
		return submissionFinishedMsg{receipt: receipt, err: err}
	}
}

func (a *App) finishSubmission(msg submissionFinishedMsg) (tea.Model, tea.Cmd) {
	if err := a.session.Complete(msg.receipt, msg.err); err != nil {
		a.logError("Submission result ignored: %v", err)
		return a, nil
	}
	a.record(msg)
	if msg.err != nil {
		a.statusMsg = "Submission failed"
		a.logError("Submission failed (attempt %d): %v", a.session.Attempts(), msg.err)
		return a, nil
	}
	a.statusMsg = "Submission accepted"
	a.logInfo("Submission accepted · %s · total %s", strings.TrimSpace(a.session.Presenter()), a.session.Payload().TotalString())
	return a, nil
}

func (a *App) record(msg submissionFinishedMsg) {
	if a.recorder == nil {
		return
	}
	entry := journal.NewEntry(a.session.Payload(), a.session.Attempts(), msg.receipt, msg.err)
	if err := a.recorder.Record(context.Background(), entry); err != nil {
		a.logWarn("Journal write failed: %v", err)
	}
}

func (a *App) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	failed := !a.session.Outcome().Accepted()
	switch {
	case key.Matches(msg, a.keys.Exit):
		return a, tea.Quit
	case failed && key.Matches(msg, a.keys.Retry):
		payload, err := a.session.Retry()
		if err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.statusMsg = "Retrying..."
		a.logInfo("Retrying submission (attempt %d)", a.session.Attempts())
		return a, tea.Batch(a.spinner.Tick, a.dispatch(payload))
	case failed && key.Matches(msg, a.keys.Revise):
		if err := a.session.Revise(); err != nil {
			a.statusMsg = err.Error()
			return a, nil
		}
		a.statusMsg = "Scores kept. Adjust and submit again"
		return a, nil
	case key.Matches(msg, a.keys.NextReview):
		return a.reset()
	}
	return a, nil
}

func (a *App) reset() (tea.Model, tea.Cmd) {
	if err := a.session.Reset(); err != nil {
		a.statusMsg = err.Error()
		return a, nil
	}
	a.reviewerInput.SetValue(a.session.Reviewer())
	a.presenterInput.SetValue("")
	a.comment.Reset()
	a.editing = false
	a.cursor = 0
	a.statusMsg = "Ready for the next presenter"
	a.logInfo("Form reset for next review")
	if strings.TrimSpace(a.session.Reviewer()) == "" {
		return a, a.focusLogin(focusReviewer)
	}
	return a, a.focusLogin(focusPresenter)
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.session.Phase() {
	case session.PhaseLogin:
		content = a.renderLogin()
	case session.PhaseGrading:
		content = a.renderGrading(width - 6)
	case session.PhaseSubmitting:
		content = a.renderSubmitting()
	case session.PhaseResult:
		content = a.renderResult()
	}
	return a.renderBoard(content, width)
}

var (
	accentColor = lipgloss.Color("#5B8DEF")
	alertColor  = lipgloss.Color("#FF6B6B")
	okColor     = lipgloss.Color("#4CAF50")
	borderColor = lipgloss.Color("#444444")
	mutedColor  = lipgloss.Color("#888888")
	hintColor   = lipgloss.Color("#AAAAAA")
)

func (a *App) renderBoard(content string, width int) string {
	title := "⬡ PEER REVIEW"
	if t := strings.TrimSpace(a.catalog.Title); t != "" {
		title = fmt.Sprintf("%s · %s", title, t)
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(alertColor).
		MarginBottom(1).
		Render(title)
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)
	sections := []string{header}
	if a.alert != "" {
		sections = append(sections, a.renderAlert(width-2))
	}
	sections = append(sections, body)
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(mutedColor).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer, a.help.ShortHelpView(a.keys.helpFor(a.session.Phase(), a.editing, !a.session.Outcome().Accepted(), a.session.Ledger().Scored() > 0)))
	return strings.Join(sections, "\n")
}

func (a *App) renderAlert(width int) string {
	hint := lipgloss.NewStyle().Foreground(hintColor).Render("Enter → dismiss")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(alertColor).
		Foreground(alertColor).
		Padding(0, 1).
		Width(max(20, width)).
		Render(fmt.Sprintf("⚠ %s\n%s", a.alert, hint))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(hintColor).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderLogin() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Who is reviewing whom?")
	note := lipgloss.NewStyle().Foreground(hintColor).Render("Enter your own name and the name of the group or student presenting.")
	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		note,
		"",
		a.reviewerInput.View(),
		a.presenterInput.View(),
	)
}

func (a *App) renderGrading(width int) string {
	l := a.session.Ledger()
	names := lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf(
		"Reviewer: %s    Presenter: %s",
		strings.TrimSpace(a.session.Reviewer()),
		strings.TrimSpace(a.session.Presenter()),
	))
	total := scoring.ComputeTotal(a.catalog, l)
	progress := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(
		"Scored %d/%d · running total %s",
		l.Scored(), a.catalog.Len(), scoring.FormatTotal(total),
	))

	rows := []string{names, progress, ""}
	for i, crit := range a.catalog.Criteria {
		rows = append(rows, a.renderCriterion(i, crit, width))
	}
	return strings.Join(rows, "\n")
}

func (a *App) renderCriterion(i int, crit rubric.Criterion, width int) string {
	l := a.session.Ledger()
	selected := i == a.cursor
	marker := "  "
	if selected {
		marker = "▸ "
	}
	score := "–"
	if v, ok := l.Score(crit.ID); ok {
		score = fmt.Sprintf("%d", v)
	}
	line := fmt.Sprintf("%s%d. %s [%s%%]  %s/%d  %s",
		marker, i+1, crit.Category, formatWeight(crit.Weight), score, rubric.MaxScore, scoreBar(l, crit.ID))
	style := lipgloss.NewStyle().Width(max(20, width))
	if !selected {
		if _, ok := l.Score(crit.ID); !ok {
			style = style.Foreground(mutedColor)
		}
		return style.Render(line)
	}

	style = style.Bold(true).Foreground(accentColor)
	parts := []string{style.Render(line)}
	detail := lipgloss.NewStyle().Foreground(hintColor).PaddingLeft(4).Width(max(20, width))
	if d := strings.TrimSpace(crit.Description); d != "" {
		parts = append(parts, detail.Render(d))
	}
	if d := strings.TrimSpace(crit.Details); d != "" {
		parts = append(parts, detail.Render(d))
	}
	if a.editing {
		parts = append(parts, lipgloss.NewStyle().PaddingLeft(4).Render(a.comment.View()))
	} else if text, ok := l.Comment(crit.ID); ok && strings.TrimSpace(text) != "" {
		parts = append(parts, detail.Render(fmt.Sprintf("✎ %s", text)))
	}
	return strings.Join(parts, "\n")
}

func scoreBar(l scoring.Scores, id string) string {
	v, _ := l.Score(id)
	return strings.Repeat("●", v) + strings.Repeat("○", rubric.MaxScore-v)
}

func formatWeight(w float64) string {
	if w == float64(int(w)) {
		return fmt.Sprintf("%d", int(w))
	}
	return fmt.Sprintf("%.1f", w)
}

func (a *App) renderSubmitting() string {
	p := a.session.Payload()
	line := fmt.Sprintf("%s Sending review of %s (total %s)", a.spinner.View(), strings.TrimSpace(p.Presenter), p.TotalString())
	if a.session.Attempts() > 1 {
		line += fmt.Sprintf(" · attempt %d", a.session.Attempts())
	}
	return line
}

func (a *App) renderResult() string {
	p := a.session.Payload()
	summary := lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf(
		"Reviewer: %s\nPresenter: %s\nTotal: %s",
		strings.TrimSpace(p.Reviewer), strings.TrimSpace(p.Presenter), p.TotalString(),
	))
	outcome := a.session.Outcome()
	if outcome.Accepted() {
		head := lipgloss.NewStyle().Bold(true).Foreground(okColor).Render("✓ Review submitted")
		hint := lipgloss.NewStyle().Foreground(hintColor).MarginTop(1).Render("Enter → review next presenter    q → quit")
		return lipgloss.JoinVertical(lipgloss.Left, head, summary, hint)
	}
	head := lipgloss.NewStyle().Bold(true).Foreground(alertColor).Render("✗ Submission failed")
	reason := lipgloss.NewStyle().Foreground(alertColor).Render(describeFailure(outcome.Err))
	hint := lipgloss.NewStyle().Foreground(hintColor).MarginTop(1).Render(
		"r → retry    e → edit scores    Enter → discard and start over    q → quit")
	return lipgloss.JoinVertical(lipgloss.Left, head, reason, summary, hint)
}

func describeFailure(err error) string {
	var rejected *submission.RejectedError
	switch {
	case errors.As(err, &rejected):
		return fmt.Sprintf("The collector refused the review (%s). Check the form address with your instructor.", rejected.Status)
	case errors.Is(err, submission.ErrTransport):
		return "Could not reach the collector. Check your connection and retry."
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}

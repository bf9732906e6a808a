package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/priyamverma/studyscout/internal/attach"
	"github.com/priyamverma/studyscout/internal/llm"
	"github.com/priyamverma/studyscout/internal/profile"
	"github.com/priyamverma/studyscout/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Store        *profile.Store
	Profile      profile.Profile
	Theme        profile.Theme
	LLM          llm.Client
	LLMWarning   string
	SnapshotPath string
}

type stage int

const (
	stageOnboarding stage = iota
	stageDashboard
	stageNotes
	stageMindMap
	stagePath
	stageChat
	stageSettings
)

const heroTagline = "Your pocket study companion."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	maxJobBadges              = 3
)

type notesResultMsg struct {
	sheet llm.NoteSheet
	err   error
}

type mindMapResultMsg struct {
	topic string
	root  llm.MindMapNode
	err   error
}

type pathResultMsg struct {
	path llm.LearningPath
	err  error
}

type chatResultMsg struct {
	reply string
	err   error
}

type attachResultMsg struct {
	file *attach.File
	err  error
}

type snapshotResultMsg struct {
	path  string
	count int
	err   error
}

type model struct {
	config  Config
	stage   stage
	theme   profile.Theme
	styles  styleSet
	learner profile.Profile

	nameInput   textinput.Model
	gradeInput  textinput.Model
	examInput   textinput.Model
	topicInput  textinput.Model
	chatInput   textinput.Model
	attachInput textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model

	onboardFocus  int
	settingsFocus int
	menuCursor    int

	notes            llm.NoteSheet
	notesHandwritten bool
	notesLoading     bool
	notesErr         string

	mindMapTopic   string
	mindMapRoot    *llm.MindMapNode
	mindMapLoading bool
	mindMapErr     string

	path        *llm.LearningPath
	pathLoading bool
	pathErr     string

	transcript  session.Transcript
	chatLoading bool

	attachment  *attach.File
	attachEntry bool

	checklist []checklistStep

	jobs       *jobBus
	jobHistory []jobSnapshot

	infoMessage  string
	errorMessage string
	helpVisible  bool
	width        int
	height       int
	contentDirty bool
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Your name"
	nameInput.CharLimit = 60
	nameInput.Width = 40

	gradeInput := textinput.New()
	gradeInput.Placeholder = "Grade or year (eg. 12)"
	gradeInput.CharLimit = 30
	gradeInput.Width = 40

	examInput := textinput.New()
	examInput.Placeholder = "Target exam (eg. JEE, NEET, SAT)"
	examInput.CharLimit = 60
	examInput.Width = 40

	topicInput := textinput.New()
	topicInput.Placeholder = "Enter a topic…"
	topicInput.CharLimit = 160
	topicInput.Width = 60

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask your tutor anything…"
	chatInput.CharLimit = 400
	chatInput.Width = 70

	attachInput := textinput.New()
	attachInput.Placeholder = "Path to a PDF or image…"
	attachInput.CharLimit = 200
	attachInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := &model{
		config:      config,
		theme:       config.Theme,
		styles:      stylesFor(config.Theme),
		learner:     config.Profile,
		nameInput:   nameInput,
		gradeInput:  gradeInput,
		examInput:   examInput,
		topicInput:  topicInput,
		chatInput:   chatInput,
		attachInput: attachInput,
		spinner:     spin,
		viewport:    vp,
		jobs:        newJobBus(generationTimeout),
		checklist:   buildChecklist(config.Profile),
		infoMessage: "Welcome back.",
	}
	if config.Profile.Onboarded {
		m.stage = stageDashboard
	} else {
		m.stage = stageOnboarding
		m.nameInput.Focus()
		m.infoMessage = "Let's set up your study profile."
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.anyLoading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.contentDirty = true
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.contentDirty = true
		return m, nil
	case tea.MouseMsg:
		if m.stageHasViewport() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.recordJob(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.recordJob(msg.Snapshot)
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil
	case notesResultMsg:
		m.notesLoading = false
		if msg.err != nil {
			m.notesErr = humanizeError(msg.err)
			m.infoMessage = "Notes failed. Adjust the topic and press Enter to retry."
		} else {
			m.notes = msg.sheet
			m.notesErr = ""
			m.infoMessage = fmt.Sprintf("Notes ready for %s. Ctrl+H toggles the handwritten look.", msg.sheet.Topic)
		}
		m.contentDirty = true
		return m, nil
	case mindMapResultMsg:
		m.mindMapLoading = false
		if msg.err != nil {
			m.mindMapErr = humanizeError(msg.err)
			m.infoMessage = "Mind map failed. Press Enter to retry."
		} else {
			root := msg.root
			m.mindMapRoot = &root
			m.mindMapTopic = msg.topic
			m.mindMapErr = ""
			m.infoMessage = "Mind map ready. Scroll with ↑/↓."
		}
		m.contentDirty = true
		return m, nil
	case pathResultMsg:
		m.pathLoading = false
		if msg.err != nil {
			m.pathErr = humanizeError(msg.err)
			m.infoMessage = "Learning path failed. Press Enter to retry."
		} else {
			path := msg.path
			m.path = &path
			m.pathErr = ""
			m.infoMessage = fmt.Sprintf("Learning path ready: %d steps.", len(path.Steps))
		}
		m.contentDirty = true
		return m, nil
	case chatResultMsg:
		m.chatLoading = false
		if msg.err != nil {
			m.transcript.Append(llm.RoleModel, humanizeError(msg.err), "", true)
			m.infoMessage = "That turn failed. Send again to retry."
		} else {
			m.transcript.Append(llm.RoleModel, msg.reply, "", false)
			m.infoMessage = "Tutor replied."
		}
		m.contentDirty = true
		m.scrollChatToBottom()
		return m, nil
	case attachResultMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			m.infoMessage = "Attachment failed. Ctrl+F to try another file."
		} else {
			m.attachment = msg.file
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Attached %s (%s).", msg.file.Name, msg.file.MIME)
		}
		m.contentDirty = true
		return m, nil
	case snapshotResultMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
		} else {
			m.errorMessage = ""
			m.infoMessage = fmt.Sprintf("Saved %d message(s) to %s.", msg.count, msg.path)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.attachEntry {
		return m.handleAttachEntryKey(key)
	}
	switch m.stage {
	case stageOnboarding:
		return m.handleOnboardingKey(key)
	case stageDashboard:
		return m.handleDashboardKey(key)
	case stageNotes:
		return m.handleNotesKey(key)
	case stageMindMap:
		return m.handleTopicStageKey(key, &m.mindMapLoading, func(topic string) tea.Cmd {
			return m.jobs.Start(jobKindMindMap, mindMapJob(m.config.LLM, m.learner, topic))
		})
	case stagePath:
		return m.handleTopicStageKey(key, &m.pathLoading, func(topic string) tea.Cmd {
			return m.jobs.Start(jobKindPath, learningPathJob(m.config.LLM, m.learner, topic))
		})
	case stageChat:
		return m.handleChatKey(key)
	case stageSettings:
		return m.handleSettingsKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleOnboardingKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := []*textinput.Model{&m.nameInput, &m.gradeInput, &m.examInput}
	switch key.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focusOnboardField((m.onboardFocus + 1) % len(inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusOnboardField((m.onboardFocus + len(inputs) - 1) % len(inputs))
		return m, nil
	case tea.KeyEnter:
		if m.onboardFocus < len(inputs)-1 {
			m.focusOnboardField(m.onboardFocus + 1)
			return m, nil
		}
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.errorMessage = "Your name is required to continue."
			m.focusOnboardField(0)
			return m, nil
		}
		m.learner = profile.Profile{
			Name:       name,
			Grade:      strings.TrimSpace(m.gradeInput.Value()),
			TargetExam: strings.TrimSpace(m.examInput.Value()),
			Onboarded:  true,
		}
		if err := m.config.Store.SaveProfile(m.learner); err != nil {
			m.errorMessage = fmt.Sprintf("failed to save profile: %v", err)
			return m, nil
		}
		m.checklist = buildChecklist(m.learner)
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Welcome, %s. Pick an action to start studying.", m.learner.DisplayName())
		m.stage = stageDashboard
		m.blurAllInputs()
		return m, nil
	}
	var cmd tea.Cmd
	*inputs[m.onboardFocus], cmd = inputs[m.onboardFocus].Update(key)
	return m, cmd
}

func (m *model) focusOnboardField(idx int) {
	inputs := []*textinput.Model{&m.nameInput, &m.gradeInput, &m.examInput}
	m.onboardFocus = idx
	for i, input := range inputs {
		if i == idx {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

type menuEntry struct {
	shortcut string
	title    string
	desc     string
	target   stage
}

func (m *model) menuEntries() []menuEntry {
	return []menuEntry{
		{"n", "Study Notes", "Generate exam-oriented notes for any topic.", stageNotes},
		{"m", "Mind Map", "Visualize a topic as a concept tree.", stageMindMap},
		{"p", "Learning Path", "Get an ordered study plan with time estimates.", stagePath},
		{"c", "Chat Tutor", "Talk through problems with your tutor.", stageChat},
		{"s", "Settings", "Edit your profile and theme.", stageSettings},
	}
}

func (m *model) handleDashboardKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.menuEntries()
	switch key.String() {
	case "up", "k":
		if m.menuCursor > 0 {
			m.menuCursor--
		}
		return m, nil
	case "down", "j":
		if m.menuCursor < len(entries)-1 {
			m.menuCursor++
		}
		return m, nil
	case "enter":
		return m.enterStage(entries[m.menuCursor].target)
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "q", "esc":
		return m, tea.Quit
	}
	for idx, entry := range entries {
		if key.String() == entry.shortcut {
			m.menuCursor = idx
			return m.enterStage(entry.target)
		}
	}
	return m, nil
}

func (m *model) enterStage(target stage) (tea.Model, tea.Cmd) {
	m.stage = target
	m.errorMessage = ""
	m.blurAllInputs()
	m.contentDirty = true
	m.resizeViewport()
	switch target {
	case stageNotes, stageMindMap, stagePath:
		m.topicInput.Focus()
		m.infoMessage = "Type a topic and press Enter."
		if target == stageNotes {
			m.infoMessage = "Type a topic and press Enter. Ctrl+F attaches a PDF or image."
		}
	case stageChat:
		m.chatInput.Focus()
		m.infoMessage = "Press Enter to send. Ctrl+F attach • Ctrl+L clear • Ctrl+S save."
		m.scrollChatToBottom()
	case stageSettings:
		m.nameInput.SetValue(m.learner.Name)
		m.gradeInput.SetValue(m.learner.Grade)
		m.examInput.SetValue(m.learner.TargetExam)
		m.settingsFocus = 0
		m.focusSettingsField(0)
		m.infoMessage = "Enter saves • Ctrl+T theme • Ctrl+R redo onboarding • Esc back."
	}
	return m, nil
}

func (m *model) leaveToDashboard() (tea.Model, tea.Cmd) {
	m.stage = stageDashboard
	m.blurAllInputs()
	m.errorMessage = ""
	m.infoMessage = "Pick an action."
	m.contentDirty = true
	return m, nil
}

func (m *model) handleNotesKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		return m.leaveToDashboard()
	case tea.KeyCtrlF:
		m.startAttachEntry()
		return m, nil
	case tea.KeyCtrlH:
		m.notesHandwritten = !m.notesHandwritten
		if m.notesHandwritten {
			m.infoMessage = "Handwritten style on."
		} else {
			m.infoMessage = "Handwritten style off."
		}
		m.contentDirty = true
		return m, nil
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.topicInput.Value())
		if topic == "" {
			m.errorMessage = "Enter a topic first."
			return m, nil
		}
		if m.config.LLM == nil {
			m.errorMessage = m.credentialWarning()
			return m, nil
		}
		if m.notesLoading {
			m.infoMessage = "Notes are already being generated."
			return m, nil
		}
		m.notesLoading = true
		m.notesErr = ""
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Generating notes for %s…", topic)
		m.contentDirty = true
		return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindNotes, notesJob(m.config.LLM, m.learner, topic, m.attachment)))
	}
	return m.updateTopicStageInputs(key)
}

// handleTopicStageKey covers the mind map and learning path stages, which
// share the topic-entry flow and differ only in the job they start.
func (m *model) handleTopicStageKey(key tea.KeyMsg, loading *bool, start func(topic string) tea.Cmd) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		return m.leaveToDashboard()
	case tea.KeyEnter:
		topic := strings.TrimSpace(m.topicInput.Value())
		if topic == "" {
			m.errorMessage = "Enter a topic first."
			return m, nil
		}
		if m.config.LLM == nil {
			m.errorMessage = m.credentialWarning()
			return m, nil
		}
		if *loading {
			m.infoMessage = "Generation already running."
			return m, nil
		}
		*loading = true
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Working on %s…", topic)
		m.contentDirty = true
		return m, tea.Batch(m.spinner.Tick, start(topic))
	}
	return m.updateTopicStageInputs(key)
}

func (m *model) updateTopicStageInputs(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	var cmd tea.Cmd
	m.topicInput, cmd = m.topicInput.Update(key)
	return m, cmd
}

func (m *model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		return m.leaveToDashboard()
	case tea.KeyCtrlF:
		m.startAttachEntry()
		return m, nil
	case tea.KeyCtrlL:
		m.transcript.Clear()
		m.infoMessage = "Conversation cleared."
		m.contentDirty = true
		return m, nil
	case tea.KeyCtrlS:
		if m.transcript.Len() == 0 {
			m.infoMessage = "Nothing to save yet."
			return m, nil
		}
		modelName := ""
		if m.config.LLM != nil {
			modelName = m.config.LLM.Name()
		}
		return m, m.jobs.Start(jobKindSnapshot, snapshotJob(m.config.SnapshotPath, m.learner.Name, modelName, m.transcript.Messages()))
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	case tea.KeyEnter:
		message := strings.TrimSpace(m.chatInput.Value())
		if message == "" {
			return m, nil
		}
		if m.config.LLM == nil {
			m.errorMessage = m.credentialWarning()
			return m, nil
		}
		if m.chatLoading {
			m.infoMessage = "Waiting for the tutor's reply."
			return m, nil
		}
		history := m.transcript.Turns()
		attachmentName := ""
		file := m.attachment
		if file != nil {
			attachmentName = file.Name
		}
		m.transcript.Append(llm.RoleUser, message, attachmentName, false)
		m.chatInput.SetValue("")
		m.attachment = nil
		m.chatLoading = true
		m.errorMessage = ""
		m.infoMessage = "Tutor is thinking…"
		m.contentDirty = true
		m.scrollChatToBottom()
		return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindChat, chatJob(m.config.LLM, m.learner, history, message, file)))
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(key)
	return m, cmd
}

func (m *model) handleSettingsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := []*textinput.Model{&m.nameInput, &m.gradeInput, &m.examInput}
	switch key.Type {
	case tea.KeyEsc:
		return m.leaveToDashboard()
	case tea.KeyCtrlT:
		if m.theme == profile.ThemeMidnight {
			m.theme = profile.ThemeDaylight
		} else {
			m.theme = profile.ThemeMidnight
		}
		m.styles = stylesFor(m.theme)
		if err := m.config.Store.SaveTheme(m.theme); err != nil {
			m.errorMessage = fmt.Sprintf("failed to save theme: %v", err)
		} else {
			m.infoMessage = fmt.Sprintf("Theme set to %s.", m.theme)
		}
		m.contentDirty = true
		return m, nil
	case tea.KeyCtrlR:
		m.learner.Onboarded = false
		if err := m.config.Store.SaveProfile(m.learner); err != nil {
			m.errorMessage = fmt.Sprintf("failed to save profile: %v", err)
			return m, nil
		}
		m.stage = stageOnboarding
		m.nameInput.SetValue(m.learner.Name)
		m.gradeInput.SetValue(m.learner.Grade)
		m.examInput.SetValue(m.learner.TargetExam)
		m.focusOnboardField(0)
		m.infoMessage = "Let's set up your study profile."
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusSettingsField((m.settingsFocus + 1) % len(inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusSettingsField((m.settingsFocus + len(inputs) - 1) % len(inputs))
		return m, nil
	case tea.KeyEnter:
		if m.settingsFocus < len(inputs)-1 {
			m.focusSettingsField(m.settingsFocus + 1)
			return m, nil
		}
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.errorMessage = "Your name is required."
			m.focusSettingsField(0)
			return m, nil
		}
		m.learner.Name = name
		m.learner.Grade = strings.TrimSpace(m.gradeInput.Value())
		m.learner.TargetExam = strings.TrimSpace(m.examInput.Value())
		if err := m.config.Store.SaveProfile(m.learner); err != nil {
			m.errorMessage = fmt.Sprintf("failed to save profile: %v", err)
			return m, nil
		}
		m.checklist = buildChecklist(m.learner)
		m.errorMessage = ""
		m.infoMessage = "Profile saved."
		return m, nil
	}
	var cmd tea.Cmd
	*inputs[m.settingsFocus], cmd = inputs[m.settingsFocus].Update(key)
	return m, cmd
}

func (m *model) focusSettingsField(idx int) {
	inputs := []*textinput.Model{&m.nameInput, &m.gradeInput, &m.examInput}
	m.settingsFocus = idx
	for i, input := range inputs {
		if i == idx {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (m *model) startAttachEntry() {
	m.attachEntry = true
	m.attachInput.SetValue("")
	m.attachInput.Focus()
	m.topicInput.Blur()
	m.chatInput.Blur()
	m.infoMessage = "Enter the path to a PDF or image, Esc to cancel."
}

func (m *model) handleAttachEntryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.endAttachEntry()
		m.infoMessage = "Attachment canceled."
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.attachInput.Value())
		m.endAttachEntry()
		if path == "" {
			m.infoMessage = "No file given."
			return m, nil
		}
		m.infoMessage = "Loading attachment…"
		return m, m.jobs.Start(jobKindAttach, attachJob(path))
	}
	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(key)
	return m, cmd
}

func (m *model) endAttachEntry() {
	m.attachEntry = false
	m.attachInput.Blur()
	switch m.stage {
	case stageChat:
		m.chatInput.Focus()
	case stageNotes, stageMindMap, stagePath:
		m.topicInput.Focus()
	}
}

func (m *model) blurAllInputs() {
	m.nameInput.Blur()
	m.gradeInput.Blur()
	m.examInput.Blur()
	m.topicInput.Blur()
	m.chatInput.Blur()
	m.attachInput.Blur()
}

func (m *model) anyLoading() bool {
	return m.notesLoading || m.mindMapLoading || m.pathLoading || m.chatLoading
}

func (m *model) stageHasViewport() bool {
	switch m.stage {
	case stageNotes, stageMindMap, stagePath, stageChat:
		return true
	}
	return false
}

func (m *model) credentialWarning() string {
	if m.config.LLMWarning != "" {
		return m.config.LLMWarning
	}
	return "No model backend configured."
}

func (m *model) recordJob(snapshot jobSnapshot) {
	for i := range m.jobHistory {
		if m.jobHistory[i].ID == snapshot.ID {
			m.jobHistory[i] = snapshot
			return
		}
	}
	m.jobHistory = append(m.jobHistory, snapshot)
	if len(m.jobHistory) > maxJobBadges {
		m.jobHistory = m.jobHistory[len(m.jobHistory)-maxJobBadges:]
	}
}

func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, llm.ErrEmptyResponse):
		return "The model sent back nothing. Try again."
	case errors.Is(err, llm.ErrNoStructure):
		return "The model reply had no usable structure. Try again."
	}
	var validation *llm.ValidationError
	if errors.As(err, &validation) {
		return "The model reply was malformed: " + validation.Reason + ". Try again."
	}
	return err.Error()
}

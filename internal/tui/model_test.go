package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/priyamverma/studyscout/internal/attach"
	"github.com/priyamverma/studyscout/internal/llm"
	"github.com/priyamverma/studyscout/internal/profile"
)

type fakeLLM struct {
	notes    llm.NoteSheet
	mindMap  llm.MindMapNode
	path     llm.LearningPath
	reply    string
	err      error
	lastFile *attach.File
}

func (f *fakeLLM) GenerateNotes(_ context.Context, _ profile.Profile, topic string, file *attach.File) (llm.NoteSheet, error) {
	f.lastFile = file
	if f.err != nil {
		return llm.NoteSheet{}, f.err
	}
	sheet := f.notes
	sheet.Topic = topic
	return sheet, nil
}

func (f *fakeLLM) GenerateMindMap(context.Context, profile.Profile, string) (llm.MindMapNode, error) {
	return f.mindMap, f.err
}

func (f *fakeLLM) GenerateLearningPath(context.Context, profile.Profile, string) (llm.LearningPath, error) {
	return f.path, f.err
}

func (f *fakeLLM) Chat(_ context.Context, _ profile.Profile, _ []llm.Turn, _ string, file *attach.File) (string, error) {
	f.lastFile = file
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "fake" }

func newTestModel(t *testing.T, onboarded bool, client llm.Client) *model {
	t.Helper()
	store, err := profile.NewStoreAt(t.TempDir())
	if err != nil {
		t.Fatalf("build store: %v", err)
	}
	learner := profile.Profile{}
	if onboarded {
		learner = profile.Profile{Name: "Asha", Grade: "12", TargetExam: "JEE", Onboarded: true}
	}
	m := New(Config{
		Store:        store,
		Profile:      learner,
		Theme:        profile.ThemeMidnight,
		LLM:          client,
		SnapshotPath: t.TempDir() + "/session.json",
	}).(*model)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *model, key tea.KeyType) {
	m.Update(tea.KeyMsg{Type: key})
}

func typeText(m *model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNewRoutesByOnboardingState(t *testing.T) {
	t.Parallel()

	if m := newTestModel(t, false, nil); m.stage != stageOnboarding {
		t.Fatalf("fresh profile should start onboarding, got stage %d", m.stage)
	}
	if m := newTestModel(t, true, nil); m.stage != stageDashboard {
		t.Fatalf("onboarded profile should start at the dashboard, got stage %d", m.stage)
	}
}

func TestOnboardingSavesProfileAndAdvances(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, false, nil)
	typeText(m, "Ravi")
	press(m, tea.KeyEnter)
	typeText(m, "11")
	press(m, tea.KeyEnter)
	typeText(m, "NEET")
	press(m, tea.KeyEnter)

	if m.stage != stageDashboard {
		t.Fatalf("expected dashboard after onboarding, got stage %d", m.stage)
	}
	saved, err := m.config.Store.LoadProfile()
	if err != nil {
		t.Fatalf("load saved profile: %v", err)
	}
	if saved.Name != "Ravi" || saved.TargetExam != "NEET" || !saved.Onboarded {
		t.Fatalf("profile not persisted: %#v", saved)
	}
}

func TestOnboardingRequiresName(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, false, nil)
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)

	if m.stage != stageOnboarding {
		t.Fatal("blank name must not complete onboarding")
	}
	if m.errorMessage == "" {
		t.Fatal("expected a validation message")
	}
}

func TestDashboardShortcutsEnterStages(t *testing.T) {
	t.Parallel()

	cases := map[string]stage{
		"n": stageNotes,
		"m": stageMindMap,
		"p": stagePath,
		"c": stageChat,
		"s": stageSettings,
	}
	for shortcut, want := range cases {
		m := newTestModel(t, true, nil)
		typeText(m, shortcut)
		if m.stage != want {
			t.Fatalf("shortcut %q: expected stage %d, got %d", shortcut, want, m.stage)
		}
	}
}

func TestEscReturnsToDashboard(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	typeText(m, "n")
	press(m, tea.KeyEsc)
	if m.stage != stageDashboard {
		t.Fatalf("esc should return to the dashboard, got stage %d", m.stage)
	}
}

func TestNotesGenerationFlow(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{notes: llm.NoteSheet{Markdown: "# Waves"}}
	m := newTestModel(t, true, fake)
	typeText(m, "n")
	typeText(m, "Waves")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a topic should start a job")
	}
	if !m.notesLoading {
		t.Fatal("notes should be marked loading")
	}

	m.Update(notesResultMsg{sheet: llm.NoteSheet{Topic: "Waves", Markdown: "# Waves"}})
	if m.notesLoading {
		t.Fatal("loading flag should clear on result")
	}
	if m.notes.Markdown != "# Waves" {
		t.Fatalf("notes not stored: %#v", m.notes)
	}

	view := m.View()
	if !strings.Contains(view, "Waves") {
		t.Fatalf("rendered view missing notes:\n%s", view)
	}
}

func TestNotesGenerationFailure(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "n")
	m.notesLoading = true
	m.Update(notesResultMsg{err: llm.ErrNoStructure})
	if m.notesLoading {
		t.Fatal("loading flag should clear on failure")
	}
	if !strings.Contains(m.notesErr, "no usable structure") {
		t.Fatalf("expected a humanized extraction error, got %q", m.notesErr)
	}
}

func TestNotesRequiresTopic(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "n")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("blank topic must not start a job")
	}
	if m.errorMessage == "" {
		t.Fatal("expected a validation message")
	}
}

func TestNotesWithoutBackendShowsWarning(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	m.config.LLMWarning = "Model backend disabled."
	typeText(m, "n")
	typeText(m, "Waves")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("no job should start without a backend")
	}
	if m.errorMessage != "Model backend disabled." {
		t.Fatalf("expected the backend warning, got %q", m.errorMessage)
	}
}

func TestMindMapResultStored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "m")
	m.mindMapLoading = true
	root := llm.MindMapNode{Name: "Optics", Children: []llm.MindMapNode{{Name: "Reflection"}}}
	m.Update(mindMapResultMsg{topic: "Optics", root: root})
	if m.mindMapRoot == nil || m.mindMapRoot.Name != "Optics" {
		t.Fatalf("mind map not stored: %#v", m.mindMapRoot)
	}
	if !strings.Contains(m.View(), "Reflection") {
		t.Fatal("rendered view missing the mind map")
	}
}

func TestLearningPathResultStored(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "p")
	m.pathLoading = true
	path := llm.LearningPath{Topic: "Calculus", Steps: []llm.PathStep{{Title: "Limits", EstimatedTime: "2 days"}}}
	m.Update(pathResultMsg{path: path})
	if m.path == nil || len(m.path.Steps) != 1 {
		t.Fatalf("path not stored: %#v", m.path)
	}
	view := m.View()
	if !strings.Contains(view, "Step 1: Limits") || !strings.Contains(view, "2 days") {
		t.Fatalf("rendered view missing the path:\n%s", view)
	}
}

func TestChatSendAppendsAndStartsJob(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{reply: "hello"})
	typeText(m, "c")
	typeText(m, "What is entropy?")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter with a message should start a job")
	}
	if m.transcript.Len() != 1 {
		t.Fatalf("user message not appended, len %d", m.transcript.Len())
	}
	if !m.chatLoading {
		t.Fatal("chat should be marked loading")
	}
	if m.chatInput.Value() != "" {
		t.Fatal("input should clear after sending")
	}

	m.Update(chatResultMsg{reply: "A measure of disorder."})
	if m.chatLoading {
		t.Fatal("loading flag should clear on reply")
	}
	messages := m.transcript.Messages()
	if len(messages) != 2 || messages[1].Role != llm.RoleModel {
		t.Fatalf("tutor reply not appended: %#v", messages)
	}
}

func TestChatFailureAppendsErrorMessage(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "c")
	m.chatLoading = true
	m.transcript.Append(llm.RoleUser, "hi", "", false)
	m.Update(chatResultMsg{err: errors.New("gemini API error: 429")})

	messages := m.transcript.Messages()
	last := messages[len(messages)-1]
	if !last.Err {
		t.Fatalf("failed turn should be error-flagged: %#v", last)
	}
	turns := m.transcript.Turns()
	if len(turns) != 1 {
		t.Fatalf("error entries must stay out of model context: %#v", turns)
	}
}

func TestChatClearAndGuards(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "c")
	m.transcript.Append(llm.RoleUser, "hi", "", false)
	press(m, tea.KeyCtrlL)
	if m.transcript.Len() != 0 {
		t.Fatal("ctrl+l should clear the transcript")
	}

	// Enter with an empty input is a no-op.
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.transcript.Len() != 0 {
		t.Fatal("empty message must not be sent")
	}
}

func TestAttachmentRidesAlongOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeLLM{reply: "ok"}
	m := newTestModel(t, true, fake)
	typeText(m, "c")
	m.attachment = &attach.File{Name: "chapter.pdf", MIME: "application/pdf"}
	typeText(m, "summarize this")
	m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if m.attachment != nil {
		t.Fatal("attachment should be consumed by the send")
	}
	if got := m.transcript.Messages()[0].Attachment; got != "chapter.pdf" {
		t.Fatalf("attachment name not recorded: %q", got)
	}
}

func TestAttachEntryFlow(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, &fakeLLM{})
	typeText(m, "n")
	press(m, tea.KeyCtrlF)
	if !m.attachEntry {
		t.Fatal("ctrl+f should open attachment entry")
	}
	typeText(m, "/tmp/chapter.pdf")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start the attach job")
	}
	if m.attachEntry {
		t.Fatal("entry mode should close after submit")
	}

	m.Update(attachResultMsg{file: &attach.File{Name: "chapter.pdf", MIME: "application/pdf"}})
	if m.attachment == nil || m.attachment.Name != "chapter.pdf" {
		t.Fatalf("attachment not stored: %#v", m.attachment)
	}
}

func TestSettingsThemeTogglePersists(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	typeText(m, "s")
	press(m, tea.KeyCtrlT)
	if m.theme != profile.ThemeDaylight {
		t.Fatalf("expected daylight after toggle, got %s", m.theme)
	}
	saved, err := m.config.Store.LoadTheme()
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if saved != profile.ThemeDaylight {
		t.Fatalf("theme not persisted, got %s", saved)
	}
}

func TestSettingsEditSavesProfile(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	typeText(m, "s")
	m.nameInput.SetValue("Meera")
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)
	press(m, tea.KeyEnter)

	if m.learner.Name != "Meera" {
		t.Fatalf("profile not updated: %#v", m.learner)
	}
	saved, err := m.config.Store.LoadProfile()
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if saved.Name != "Meera" {
		t.Fatalf("profile not persisted: %#v", saved)
	}
}

func TestSettingsResetReopensOnboarding(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	typeText(m, "s")
	press(m, tea.KeyCtrlR)
	if m.stage != stageOnboarding {
		t.Fatalf("ctrl+r should reopen onboarding, got stage %d", m.stage)
	}
	saved, _ := m.config.Store.LoadProfile()
	if saved.Onboarded {
		t.Fatal("reset must persist Onboarded=false")
	}
}

func TestJobHistoryCapped(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	for i := 0; i < maxJobBadges+2; i++ {
		m.recordJob(jobSnapshot{ID: string(rune('a' + i)), Kind: jobKindNotes, Status: jobStatusSucceeded})
	}
	if len(m.jobHistory) != maxJobBadges {
		t.Fatalf("history should cap at %d, got %d", maxJobBadges, len(m.jobHistory))
	}
}

func TestJobResultEnvelopeUnwrapsPayload(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	m.notesLoading = true
	m.Update(jobResultEnvelope{
		Snapshot: jobSnapshot{ID: "notes-1", Kind: jobKindNotes, Status: jobStatusSucceeded},
		Payload:  notesResultMsg{sheet: llm.NoteSheet{Topic: "Waves", Markdown: "# Waves"}},
	})
	if m.notesLoading {
		t.Fatal("payload should be dispatched through Update")
	}
	if len(m.jobHistory) != 1 || m.jobHistory[0].Status != jobStatusSucceeded {
		t.Fatalf("job badge not recorded: %#v", m.jobHistory)
	}
}

func TestHumanizeError(t *testing.T) {
	t.Parallel()

	if got := humanizeError(llm.ErrEmptyResponse); !strings.Contains(got, "nothing") {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := humanizeError(&llm.ValidationError{Reason: "no steps"}); !strings.Contains(got, "no steps") {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := humanizeError(errors.New("boom")); got != "boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	typeText(m, "?")
	if !m.helpVisible {
		t.Fatal("? should open the help overlay")
	}
	if !strings.Contains(m.View(), "quit from anywhere") {
		t.Fatal("help overlay not rendered")
	}
	typeText(m, "?")
	if m.helpVisible {
		t.Fatal("? should close the help overlay")
	}
}

func TestViewShowsCredentialWarning(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, true, nil)
	m.config.LLMWarning = "Model backend disabled: missing credential."
	if !strings.Contains(m.View(), "Model backend disabled") {
		t.Fatal("warning banner missing from the view")
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/priyamverma/studyscout/internal/llm"
	"github.com/priyamverma/studyscout/internal/markdown"
	"github.com/priyamverma/studyscout/internal/mindmap"
)

func (m *model) View() string {
	if m.contentDirty {
		m.refreshViewportContent()
		m.contentDirty = false
	}

	var b strings.Builder
	b.WriteString(m.heroView())
	b.WriteString("\n")
	if m.config.LLMWarning != "" {
		b.WriteString(m.styles.warning.Render("⚠ " + m.config.LLMWarning))
		b.WriteString("\n")
	}

	switch m.stage {
	case stageOnboarding:
		b.WriteString(m.onboardingView())
	case stageDashboard:
		if m.helpVisible {
			b.WriteString(m.helpView())
		} else {
			b.WriteString(m.dashboardView())
		}
	case stageNotes:
		b.WriteString(m.topicStageView("Study Notes", m.notesLoading, m.notesErr))
	case stageMindMap:
		b.WriteString(m.topicStageView("Mind Map", m.mindMapLoading, m.mindMapErr))
	case stagePath:
		b.WriteString(m.topicStageView("Learning Path", m.pathLoading, m.pathErr))
	case stageChat:
		b.WriteString(m.chatView())
	case stageSettings:
		b.WriteString(m.settingsView())
	}

	b.WriteString("\n")
	b.WriteString(m.statusBarView())
	b.WriteString("\n")
	b.WriteString(m.messageLineView())
	b.WriteString("\n")
	b.WriteString(m.legendView())
	return b.String()
}

func (m *model) heroView() string {
	title := m.styles.title.Render("StudyScout")
	model := ""
	if m.config.LLM != nil {
		model = m.styles.helper.Render(m.config.LLM.Name())
	}
	inner := joinNonEmpty(" · ", title, m.styles.tagline.Render(heroTagline), model)
	return m.styles.heroBox.Render(inner)
}

func (m *model) onboardingView() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Tell us about yourself"))
	b.WriteString("\n\n")
	fields := []struct {
		label string
		input string
	}{
		{"Name", m.nameInput.View()},
		{"Grade", m.gradeInput.View()},
		{"Target exam", m.examInput.View()},
	}
	for i, field := range fields {
		marker := "  "
		if i == m.onboardFocus {
			marker = m.styles.menuCursor.Render("▸") + " "
		}
		b.WriteString(fmt.Sprintf("%s%s\n  %s\n", marker, m.styles.stepTitle.Render(field.label), field.input))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.helper.Render("Tab moves between fields, Enter on the last one saves."))
	return b.String()
}

func (m *model) dashboardView() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render(fmt.Sprintf("Hi %s, what shall we study?", m.learner.DisplayName())))
	b.WriteString("\n\n")
	for i, entry := range m.menuEntries() {
		line := fmt.Sprintf("[%s] %-14s %s", entry.shortcut, entry.title, entry.desc)
		if i == m.menuCursor {
			b.WriteString(m.styles.menuCursor.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.menuItem.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.checklistView())
	return b.String()
}

func (m *model) checklistView() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Suggested flow"))
	b.WriteString("\n")
	for i, step := range m.checklist {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, m.styles.stepTitle.Render(step.Title)))
		b.WriteString("   " + m.styles.helper.Render(step.Description) + "\n")
	}
	return m.styles.legendBox.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) topicStageView(heading string, loading bool, errText string) string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render(heading))
	b.WriteString("\n")
	b.WriteString(m.styles.helper.Render("Topic: "))
	b.WriteString(m.topicInput.View())
	b.WriteString("\n")
	if m.attachEntry {
		b.WriteString(m.styles.helper.Render("Attach: "))
		b.WriteString(m.attachInput.View())
		b.WriteString("\n")
	} else if m.stage == stageNotes && m.attachment != nil {
		b.WriteString(m.styles.helper.Render(fmt.Sprintf("📎 %s (%s)", m.attachment.Name, m.attachment.MIME)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	switch {
	case loading:
		b.WriteString(m.spinner.View() + " " + m.styles.helper.Render("Talking to the model…"))
	case errText != "":
		b.WriteString(m.styles.errorText.Render(errText))
	default:
		b.WriteString(m.viewport.View())
	}
	return b.String()
}

func (m *model) chatView() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Chat Tutor"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.chatLoading {
		b.WriteString(m.spinner.View() + " " + m.styles.helper.Render("Tutor is thinking…"))
		b.WriteString("\n")
	}
	if m.attachEntry {
		b.WriteString(m.styles.helper.Render("Attach: "))
		b.WriteString(m.attachInput.View())
	} else {
		if m.attachment != nil {
			b.WriteString(m.styles.helper.Render(fmt.Sprintf("📎 %s will ride along with your next message.", m.attachment.Name)))
			b.WriteString("\n")
		}
		b.WriteString(m.chatInput.View())
	}
	return b.String()
}

func (m *model) settingsView() string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Settings"))
	b.WriteString("\n\n")
	fields := []struct {
		label string
		input string
	}{
		{"Name", m.nameInput.View()},
		{"Grade", m.gradeInput.View()},
		{"Target exam", m.examInput.View()},
	}
	for i, field := range fields {
		marker := "  "
		if i == m.settingsFocus {
			marker = m.styles.menuCursor.Render("▸") + " "
		}
		b.WriteString(fmt.Sprintf("%s%s\n  %s\n", marker, m.styles.stepTitle.Render(field.label), field.input))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.helper.Render(fmt.Sprintf("Theme: %s (Ctrl+T toggles)", m.theme)))
	b.WriteString("\n")
	b.WriteString(m.styles.helper.Render("Ctrl+R reruns onboarding from scratch."))
	return b.String()
}

func (m *model) helpView() string {
	rows := []struct {
		key  string
		desc string
	}{
		{"n / m / p / c / s", "jump straight to notes, mind map, path, chat, settings"},
		{"↑/↓ + Enter", "move through the menu and pick an action"},
		{"Enter", "generate (in a topic stage) or send (in chat)"},
		{"Ctrl+F", "attach a PDF or image in notes and chat"},
		{"Ctrl+H", "toggle the handwritten notes style"},
		{"Ctrl+L / Ctrl+S", "clear or save the chat conversation"},
		{"Esc", "back to the dashboard"},
		{"Ctrl+C", "quit from anywhere"},
	}
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render("Keys"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(m.styles.key.Render(row.key) + " " + m.styles.keyDesc.Render(row.desc) + "\n")
	}
	b.WriteString(m.styles.helper.Render("Press ? again to close."))
	return m.styles.helpBox.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *model) statusBarView() string {
	parts := []string{
		m.stageLabel(),
		m.learner.DisplayName(),
	}
	if m.attachment != nil {
		parts = append(parts, "📎 "+m.attachment.Name)
	}
	for _, snapshot := range m.jobHistory {
		parts = append(parts, fmt.Sprintf("%s:%s", snapshot.Kind, snapshot.Status))
	}
	return m.styles.statusBar.Render(strings.Join(parts, " │ "))
}

func (m *model) stageLabel() string {
	switch m.stage {
	case stageOnboarding:
		return "onboarding"
	case stageDashboard:
		return "dashboard"
	case stageNotes:
		return "notes"
	case stageMindMap:
		return "mind map"
	case stagePath:
		return "learning path"
	case stageChat:
		return "chat"
	case stageSettings:
		return "settings"
	}
	return ""
}

func (m *model) messageLineView() string {
	if m.errorMessage != "" {
		return m.styles.errorText.Render(m.errorMessage)
	}
	return m.styles.helper.Render(m.infoMessage)
}

func (m *model) legendView() string {
	switch m.stage {
	case stageDashboard:
		return m.styles.helper.Render("? help • q quit")
	case stageNotes:
		return m.styles.helper.Render("Enter generate • Ctrl+F attach • Ctrl+H handwritten • Esc back")
	case stageChat:
		return m.styles.helper.Render("Enter send • Ctrl+F attach • Ctrl+L clear • Ctrl+S save • Esc back")
	case stageSettings:
		return m.styles.helper.Render("Enter save • Ctrl+T theme • Ctrl+R redo onboarding • Esc back")
	case stageOnboarding:
		return m.styles.helper.Render("Tab next field • Enter save • Ctrl+C quit")
	default:
		return m.styles.helper.Render("Enter generate • ↑/↓ scroll • Esc back")
	}
}

func (m *model) contentWidth() int {
	width := m.width - viewportHorizontalPadding
	if width < minViewportWidth {
		width = minViewportWidth
	}
	return width
}

func (m *model) resizeViewport() {
	height := m.height - 12
	if height < 6 {
		height = 6
	}
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = height
}

func (m *model) refreshViewportContent() {
	width := m.contentWidth()
	switch m.stage {
	case stageNotes:
		if m.notes.Markdown == "" {
			m.viewport.SetContent(m.styles.helper.Render("Nothing yet. Enter a topic above."))
			return
		}
		variant := markdown.VariantStandard
		if m.notesHandwritten {
			variant = markdown.VariantHandwritten
		}
		m.viewport.SetContent(markdown.Render(m.notes.Markdown, width, variant))
	case stageMindMap:
		if m.mindMapRoot == nil {
			m.viewport.SetContent(m.styles.helper.Render("Nothing yet. Enter a topic above."))
			return
		}
		summary := m.styles.helper.Render(fmt.Sprintf("%d concepts, %d levels deep",
			mindmap.CountNodes(*m.mindMapRoot), mindmap.Depth(*m.mindMapRoot)))
		m.viewport.SetContent(mindmap.Render(*m.mindMapRoot, width) + "\n\n" + summary)
	case stagePath:
		if m.path == nil {
			m.viewport.SetContent(m.styles.helper.Render("Nothing yet. Enter a topic above."))
			return
		}
		m.viewport.SetContent(m.learningPathContent(width))
	case stageChat:
		m.viewport.SetContent(m.chatTranscriptContent(width))
	}
}

func (m *model) learningPathContent(width int) string {
	var b strings.Builder
	b.WriteString(m.styles.sectionHeader.Render(m.path.Topic))
	b.WriteString("\n\n")
	for i, step := range m.path.Steps {
		b.WriteString(m.styles.stepTitle.Render(fmt.Sprintf("Step %d: %s", i+1, step.Title)))
		b.WriteString("\n")
		if step.Description != "" {
			b.WriteString(wordwrap.String(step.Description, width))
			b.WriteString("\n")
		}
		meta := joinNonEmpty(" · ", step.EstimatedTime, strings.Join(step.KeyConcepts, ", "))
		if meta != "" {
			b.WriteString(m.styles.stepMeta.Render(meta))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) chatTranscriptContent(width int) string {
	messages := m.transcript.Messages()
	if len(messages) == 0 {
		return m.styles.helper.Render("No messages yet. Say hi to your tutor.")
	}
	var b strings.Builder
	for _, message := range messages {
		label := m.styles.tutorLabel.Render("Tutor")
		if message.Role == llm.RoleUser {
			label = m.styles.userLabel.Render("You")
		}
		b.WriteString(label)
		if message.Attachment != "" {
			b.WriteString(m.styles.helper.Render("  📎 " + message.Attachment))
		}
		b.WriteString("\n")
		text := wordwrap.String(message.Text, width)
		if message.Err {
			text = m.styles.errorText.Render(text)
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *model) scrollChatToBottom() {
	if m.stage == stageChat {
		m.refreshViewportContent()
		m.contentDirty = false
		m.viewport.GotoBottom()
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

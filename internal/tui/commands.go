package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/priyamverma/studyscout/internal/attach"
	"github.com/priyamverma/studyscout/internal/llm"
	"github.com/priyamverma/studyscout/internal/profile"
	"github.com/priyamverma/studyscout/internal/session"
)

// How long the job bus lets any single generation run.
const generationTimeout = 2 * time.Minute

func notesJob(client llm.Client, learner profile.Profile, topic string, file *attach.File) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		sheet, err := client.GenerateNotes(ctx, learner, topic, file)
		return notesResultMsg{sheet: sheet, err: err}, err
	}
}

func mindMapJob(client llm.Client, learner profile.Profile, topic string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		root, err := client.GenerateMindMap(ctx, learner, topic)
		return mindMapResultMsg{topic: topic, root: root, err: err}, err
	}
}

func learningPathJob(client llm.Client, learner profile.Profile, topic string) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		path, err := client.GenerateLearningPath(ctx, learner, topic)
		return pathResultMsg{path: path, err: err}, err
	}
}

func chatJob(client llm.Client, learner profile.Profile, history []llm.Turn, message string, file *attach.File) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		reply, err := client.Chat(ctx, learner, history, message, file)
		return chatResultMsg{reply: reply, err: err}, err
	}
}

func attachJob(path string) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		file, err := attach.Load(path)
		return attachResultMsg{file: file, err: err}, err
	}
}

func snapshotJob(path, learner, model string, messages []session.Message) jobRunner {
	toPersist := append([]session.Message(nil), messages...)
	return func(context.Context) (tea.Msg, error) {
		err := session.SaveSnapshot(path, learner, model, toPersist)
		return snapshotResultMsg{path: path, count: len(toPersist), err: err}, err
	}
}

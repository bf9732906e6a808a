package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/priyamverma/studyscout/internal/attach"
	"github.com/priyamverma/studyscout/internal/profile"
)

// ollamaClient is the local fallback backend. It cannot accept inline file
// bytes, so attachments contribute their locally extracted text instead.
type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) GenerateNotes(ctx context.Context, learner profile.Profile, topic string, file *attach.File) (NoteSheet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return NoteSheet{}, fmt.Errorf("topic cannot be empty")
	}
	documentText := ""
	if file != nil {
		documentText = file.Text
	}
	raw, err := c.generate(ctx, buildNotesPrompt(learner, topic, documentText))
	if err != nil {
		return NoteSheet{}, err
	}
	return NoteSheet{Topic: topic, Markdown: raw}, nil
}

func (c *ollamaClient) GenerateMindMap(ctx context.Context, learner profile.Profile, topic string) (MindMapNode, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return MindMapNode{}, fmt.Errorf("topic cannot be empty")
	}
	raw, err := c.generate(ctx, buildMindMapPrompt(learner, topic))
	if err != nil {
		return MindMapNode{}, err
	}
	return DecodeMindMap(raw)
}

func (c *ollamaClient) GenerateLearningPath(ctx context.Context, learner profile.Profile, topic string) (LearningPath, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return LearningPath{}, fmt.Errorf("topic cannot be empty")
	}
	raw, err := c.generate(ctx, buildLearningPathPrompt(learner, topic))
	if err != nil {
		return LearningPath{}, err
	}
	return DecodeLearningPath(raw, topic)
}

func (c *ollamaClient) Chat(ctx context.Context, learner profile.Profile, history []Turn, message string, file *attach.File) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	var b strings.Builder
	b.WriteString(buildChatSystemPrompt(learner))
	b.WriteString("\n\n")
	if transcript := buildChatTranscript(history, maxChatHistoryChars); transcript != "" {
		b.WriteString("Conversation so far:\n")
		b.WriteString(transcript)
		b.WriteString("\n\n")
	}
	if file != nil && strings.TrimSpace(file.Text) != "" {
		b.WriteString("Attached material:\n")
		b.WriteString(clipText(file.Text, maxChatContextChars))
		b.WriteString("\n\n")
	}
	b.WriteString("Student: " + message + "\nTutor:")
	return c.generate(ctx, b.String())
}

func (c *ollamaClient) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Response == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(parsed.Response), nil
}

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

type geminiClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) GenerateNotes(ctx context.Context, learner profile.Profile, topic string, file *attach.File) (NoteSheet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return NoteSheet{}, fmt.Errorf("topic cannot be empty")
	}
	parts := []geminiPart{{Text: buildNotesPrompt(learner, topic, "")}}
	parts = appendInlineFile(parts, file)
	raw, err := c.generate(ctx, nil, []geminiContent{{Role: "user", Parts: parts}}, false)
	if err != nil {
		return NoteSheet{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return NoteSheet{}, ErrEmptyResponse
	}
	return NoteSheet{Topic: topic, Markdown: raw}, nil
}

func (c *geminiClient) GenerateMindMap(ctx context.Context, learner profile.Profile, topic string) (MindMapNode, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return MindMapNode{}, fmt.Errorf("topic cannot be empty")
	}
	prompt := buildMindMapPrompt(learner, topic)
	raw, err := c.generate(ctx, nil, []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}, true)
	if err != nil {
		return MindMapNode{}, err
	}
	return DecodeMindMap(raw)
}

func (c *geminiClient) GenerateLearningPath(ctx context.Context, learner profile.Profile, topic string) (LearningPath, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return LearningPath{}, fmt.Errorf("topic cannot be empty")
	}
	prompt := buildLearningPathPrompt(learner, topic)
	raw, err := c.generate(ctx, nil, []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}, true)
	if err != nil {
		return LearningPath{}, err
	}
	return DecodeLearningPath(raw, topic)
}

func (c *geminiClient) Chat(ctx context.Context, learner profile.Profile, history []Turn, message string, file *attach.File) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	system := &geminiContent{Parts: []geminiPart{{Text: buildChatSystemPrompt(learner)}}}
	history = clipHistory(history, maxChatHistoryChars)
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleModel {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: clipText(turn.Text, maxChatContextChars)}}})
	}
	parts := appendInlineFile([]geminiPart{{Text: message}}, file)
	contents = append(contents, geminiContent{Role: "user", Parts: parts})

	raw, err := c.generate(ctx, system, contents, false)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}

func appendInlineFile(parts []geminiPart, file *attach.File) []geminiPart {
	if file == nil {
		return parts
	}
	return append(parts, geminiPart{InlineData: &geminiInlineData{
		MIMEType: file.MIME,
		Data:     file.Base64(),
	}})
}

func (c *geminiClient) generate(ctx context.Context, system *geminiContent, contents []geminiContent, wantJSON bool) (string, error) {
	payload := geminiRequest{
		SystemInstruction: system,
		Contents:          contents,
		GenerationConfig:  &geminiGenerationConfig{Temperature: 0.2},
	}
	if wantJSON {
		payload.GenerationConfig.ResponseMIMEType = "application/json"
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.base, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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
		return "", fmt.Errorf("gemini API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("gemini API returned no candidates")
	}
	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

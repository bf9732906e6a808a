package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/priyamverma/studyscout/internal/attach"
	"github.com/priyamverma/studyscout/internal/profile"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultGeminiBase  = "https://generativelanguage.googleapis.com/v1beta"
	defaultOllamaModel = "ministral-3:latest"
	defaultOllamaHost  = "http://localhost:11434"

	// Prompt budgets keep requests well under the hosted model's context
	// window (roughly 4 chars/token with >=20% headroom).
	maxNotesContextChars = 120_000
	maxChatContextChars  = 60_000
	maxChatHistoryChars  = 40_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// ErrMissingCredential reports that the hosted backend has no API key. The
// UI degrades to a visible warning instead of failing hard.
var ErrMissingCredential = errors.New("missing model API credential (set GEMINI_API_KEY)")

// Config describes how to build a model client.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Client wraps the hosted model API behind the four generative operations.
type Client interface {
	GenerateNotes(ctx context.Context, learner profile.Profile, topic string, file *attach.File) (NoteSheet, error)
	GenerateMindMap(ctx context.Context, learner profile.Profile, topic string) (MindMapNode, error)
	GenerateLearningPath(ctx context.Context, learner profile.Profile, topic string) (LearningPath, error)
	Chat(ctx context.Context, learner profile.Profile, history []Turn, message string, file *attach.File) (string, error)
	Name() string
}

// NoteSheet is the markdown-like study-note text for one topic.
type NoteSheet struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
}

// MindMapNode is a recursive concept hierarchy. Produced wholesale by one
// model call and replaced wholesale on regeneration.
type MindMapNode struct {
	Name     string        `json:"name"`
	Children []MindMapNode `json:"children,omitempty"`
}

// LearningPath is an ordered study plan for one topic.
type LearningPath struct {
	Topic string     `json:"topic"`
	Steps []PathStep `json:"steps"`
}

// PathStep is one stop in a learning path.
type PathStep struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimatedTime"`
	KeyConcepts   []string `json:"keyConcepts,omitempty"`
}

// Turn is one prior exchange entry handed to the chat operation.
type Turn struct {
	Role Role
	Text string
}

// Role tags a turn's author.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// New builds a client for the configured provider. The gemini provider
// requires the API credential; ollama needs only a reachable host.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrMissingCredential
		}
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		base := cfg.Endpoint
		if base == "" {
			base = defaultGeminiBase
		}
		return &geminiClient{
			apiKey: cfg.APIKey,
			model:  model,
			base:   strings.TrimRight(base, "/"),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case "ollama":
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		host := cfg.Endpoint
		if host == "" {
			host = defaultOllamaHost
		}
		return &ollamaClient{
			host:   strings.TrimRight(host, "/"),
			model:  model,
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Generations often run past 60s; rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

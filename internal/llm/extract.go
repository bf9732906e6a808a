package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel failures of the tolerant JSON extraction. Parse failures carry
// the offending slice in the message instead, for diagnostics.
var (
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrNoStructure   = errors.New("no JSON structure found in model response")
)

// ValidationError reports model output that parsed as JSON but does not
// match the expected shape. Distinguishable from parse failures so callers
// can tell "garbled text" from "well-formed but wrong".
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid model payload: " + e.Reason
}

// Mind maps deeper than this are treated as runaway output rather than a
// usable hierarchy.
const maxMindMapDepth = 12

// ExtractJSON pulls a JSON object out of a noisy model reply. Models often
// wrap payloads in ``` fences or surround them with prose; this strips the
// fences, slices from the first '{' through the last '}', and parses the
// result. Pure function.
func ExtractJSON(raw string) (json.RawMessage, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyResponse
	}
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return nil, ErrNoStructure
	}

	slice := cleaned[start : end+1]
	if !json.Valid([]byte(slice)) {
		return nil, fmt.Errorf("failed to parse extracted JSON: %s", slice)
	}
	return json.RawMessage(slice), nil
}

// DecodeMindMap extracts and validates a mind-map tree from a model reply.
func DecodeMindMap(raw string) (MindMapNode, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return MindMapNode{}, err
	}
	var root MindMapNode
	if err := json.Unmarshal(payload, &root); err != nil {
		return MindMapNode{}, fmt.Errorf("failed to decode mind map: %w", err)
	}
	if err := validateMindMap(root, 0); err != nil {
		return MindMapNode{}, err
	}
	return root, nil
}

func validateMindMap(node MindMapNode, depth int) error {
	if depth > maxMindMapDepth {
		return &ValidationError{Reason: fmt.Sprintf("mind map nesting exceeds %d levels", maxMindMapDepth)}
	}
	if strings.TrimSpace(node.Name) == "" {
		return &ValidationError{Reason: "mind map node with empty name"}
	}
	for _, child := range node.Children {
		if err := validateMindMap(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLearningPath extracts and validates a learning path from a model
// reply. The topic falls back to the requested one when the model omits it.
func DecodeLearningPath(raw, requestedTopic string) (LearningPath, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return LearningPath{}, err
	}
	var path LearningPath
	if err := json.Unmarshal(payload, &path); err != nil {
		return LearningPath{}, fmt.Errorf("failed to decode learning path: %w", err)
	}
	if strings.TrimSpace(path.Topic) == "" {
		path.Topic = requestedTopic
	}
	if len(path.Steps) == 0 {
		return LearningPath{}, &ValidationError{Reason: "learning path has no steps"}
	}
	for i, step := range path.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return LearningPath{}, &ValidationError{Reason: fmt.Sprintf("learning path step %d has no title", i+1)}
		}
	}
	return path, nil
}

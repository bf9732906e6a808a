package session

import (
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/priyamverma/studyscout/internal/llm"
)

const messageIDLength = 12

// Message records one chat entry. Err marks a failed model turn so the UI
// can render it as an inline error instead of tutor prose.
type Message struct {
	ID         string    `json:"id"`
	Role       llm.Role  `json:"role"`
	Text       string    `json:"text"`
	Attachment string    `json:"attachment,omitempty"`
	Err        bool      `json:"err,omitempty"`
	SentAt     time.Time `json:"sentAt"`
}

// Transcript is the append-only message sequence for one tutoring session.
// Cleared wholesale by user action, never edited in place.
type Transcript struct {
	messages []Message
}

// Append adds a message and returns it with a freshly minted ID.
func (t *Transcript) Append(role llm.Role, text, attachment string, errFlag bool) Message {
	id, err := gonanoid.New(messageIDLength)
	if err != nil {
		// gonanoid only fails when the OS entropy source does; fall back to
		// a timestamp so the session can continue.
		id = time.Now().Format("150405.000000000")
	}
	msg := Message{
		ID:         id,
		Role:       role,
		Text:       text,
		Attachment: attachment,
		Err:        errFlag,
		SentAt:     time.Now(),
	}
	t.messages = append(t.messages, msg)
	return msg
}

// Messages returns the transcript in order.
func (t *Transcript) Messages() []Message {
	return t.messages
}

// Len reports the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Clear drops the whole transcript.
func (t *Transcript) Clear() {
	t.messages = nil
}

// Turns converts the transcript into the shape the chat operation accepts.
// Error-flagged entries are skipped; they are UI artifacts, not context the
// model should see again.
func (t *Transcript) Turns() []llm.Turn {
	turns := make([]llm.Turn, 0, len(t.messages))
	for _, msg := range t.messages {
		if msg.Err || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		turns = append(turns, llm.Turn{Role: msg.Role, Text: msg.Text})
	}
	return turns
}

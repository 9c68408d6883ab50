package conversation

import "time"

// Message roles within a session.
const (
	RolePatient   = "patient"
	RoleAssistant = "ai_assistant"
)

// Message provenance.
const (
	SourceRawInput    = "raw_input"
	SourceButton      = "button"
	SourceAIGenerated = "ai_generated"
)

// Message is one turn in a patient/assistant session. Messages form an
// append-only log: immutable once written, ordered within a session by
// timestamp.
type Message struct {
	MessageID   string    `json:"message_id"`
	SessionID   string    `json:"session_id"`
	PatientID   string    `json:"patient_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	InputMethod string    `json:"input_method,omitempty"`
	Intent      string    `json:"detected_intent,omitempty"`
	Emotion     string    `json:"detected_emotion,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SessionSummary describes one session for the staff view.
type SessionSummary struct {
	SessionID         string    `json:"session_id"`
	FirstMessage      time.Time `json:"first_message"`
	MessageCount      int       `json:"message_count"`
	PatientMessages   int       `json:"patient_messages"`
	AssistantMessages int       `json:"ai_messages"`
}

package conversation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

// Filter selects messages; set predicates are ANDed together.
type Filter struct {
	PatientID  string
	SessionID  string
	Descending bool
}

type Repository interface {
	Append(ctx context.Context, msg *Message) (string, error)
	Query(ctx context.Context, f Filter) ([]Message, error)

	// Update always fails: the conversation log is append-only.
	Update(ctx context.Context, messageID string, patch map[string]string) error
}

type sheetRepo struct {
	backend tabular.Backend
	log     *logrus.Logger
	now     func() time.Time
}

func NewRepository(backend tabular.Backend, log *logrus.Logger) Repository {
	return &sheetRepo{backend: backend, log: log, now: time.Now}
}

func (r *sheetRepo) Append(ctx context.Context, msg *Message) (string, error) {
	if err := validate(msg); err != nil {
		return "", err
	}
	if msg.MessageID == "" {
		msg.MessageID = "MSG-" + uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = r.now()
	}
	if err := r.backend.AppendRow(ctx, schema.TableConversations, toRow(msg)); err != nil {
		return "", fmt.Errorf("append message: %w", err)
	}
	return msg.MessageID, nil
}

func (r *sheetRepo) Query(ctx context.Context, f Filter) ([]Message, error) {
	rows, err := r.backend.ReadRows(ctx, schema.TableConversations)
	if err != nil {
		return nil, fmt.Errorf("read conversations: %w", err)
	}
	messages := make([]Message, 0, len(rows))
	for i, row := range rows {
		msg, err := fromRow(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{"row": i + 1, "error": err}).
				Warn("skipping unreadable conversation row")
			continue
		}
		if f.PatientID != "" && msg.PatientID != f.PatientID {
			continue
		}
		if f.SessionID != "" && msg.SessionID != f.SessionID {
			continue
		}
		messages = append(messages, msg)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		if f.Descending {
			return messages[i].Timestamp.After(messages[j].Timestamp)
		}
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func (r *sheetRepo) Update(ctx context.Context, messageID string, patch map[string]string) error {
	return fmt.Errorf("update message %s: %w", messageID, tabular.ErrImmutableRecord)
}

func validate(msg *Message) error {
	var v []tabular.Violation
	if msg.PatientID == "" {
		v = append(v, tabular.Violation{Field: "patient_id", Message: "required"})
	}
	if msg.SessionID == "" {
		v = append(v, tabular.Violation{Field: "session_id", Message: "required"})
	}
	if msg.Content == "" {
		v = append(v, tabular.Violation{Field: "content", Message: "required"})
	}
	switch msg.Role {
	case RolePatient, RoleAssistant:
	default:
		v = append(v, tabular.Violation{
			Field:   "role",
			Message: fmt.Sprintf("must be patient or ai_assistant; got %q", msg.Role),
		})
	}
	switch msg.Source {
	case SourceRawInput, SourceButton, SourceAIGenerated:
	default:
		v = append(v, tabular.Violation{
			Field:   "source",
			Message: fmt.Sprintf("must be one of raw_input, button, ai_generated; got %q", msg.Source),
		})
	}
	if len(v) > 0 {
		return &tabular.ValidationError{Violations: v}
	}
	return nil
}

func toRow(msg *Message) tabular.Row {
	return tabular.Row{
		"message_id":       msg.MessageID,
		"session_id":       msg.SessionID,
		"patient_id":       msg.PatientID,
		"role":             msg.Role,
		"content":          msg.Content,
		"source":           msg.Source,
		"input_method":     msg.InputMethod,
		"detected_intent":  msg.Intent,
		"detected_emotion": msg.Emotion,
		"timestamp":        msg.Timestamp.Format(time.RFC3339),
		// Annotation columns are populated by the NLP review tooling,
		// never by this core.
		"annotated_intent":   "",
		"annotated_emotion":  "",
		"annotated_entities": "",
		"annotator_id":       "",
		"annotation_time":    "",
		"needs_review":       "N",
	}
}

func fromRow(row tabular.Row) (Message, error) {
	ts, err := time.Parse(time.RFC3339, row.Get("timestamp"))
	if err != nil {
		return Message{}, fmt.Errorf("timestamp: %w", err)
	}
	return Message{
		MessageID:   row.Get("message_id"),
		SessionID:   row.Get("session_id"),
		PatientID:   row.Get("patient_id"),
		Role:        row.Get("role"),
		Content:     row.Get("content"),
		Source:      row.Get("source"),
		InputMethod: row.Get("input_method"),
		Intent:      row.Get("detected_intent"),
		Emotion:     row.Get("detected_emotion"),
		Timestamp:   ts,
	}, nil
}

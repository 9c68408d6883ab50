package conversation

import (
	"context"
	"testing"
	"time"
)

type fakeRepo struct {
	messages []Message
}

func (f *fakeRepo) Append(ctx context.Context, msg *Message) (string, error) {
	f.messages = append(f.messages, *msg)
	return msg.MessageID, nil
}

func (f *fakeRepo) Query(ctx context.Context, filter Filter) ([]Message, error) {
	out := make([]Message, 0, len(f.messages))
	for _, m := range f.messages {
		if filter.PatientID != "" && m.PatientID != filter.PatientID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, messageID string, patch map[string]string) error {
	return nil
}

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 15, hour, min, 0, 0, time.UTC)
}

func TestSessionsAggregatesAndOrders(t *testing.T) {
	repo := &fakeRepo{messages: []Message{
		{PatientID: "P-1", SessionID: "S-morning", Role: RolePatient, Timestamp: at(8, 0)},
		{PatientID: "P-1", SessionID: "S-morning", Role: RoleAssistant, Timestamp: at(8, 1)},
		{PatientID: "P-1", SessionID: "S-morning", Role: RolePatient, Timestamp: at(8, 2)},
		{PatientID: "P-1", SessionID: "S-evening", Role: RolePatient, Timestamp: at(19, 0)},
		{PatientID: "P-1", SessionID: "S-evening", Role: RoleAssistant, Timestamp: at(19, 1)},
		{PatientID: "P-2", SessionID: "S-other", Role: RolePatient, Timestamp: at(12, 0)},
	}}
	svc := NewService(repo)

	sessions, err := svc.Sessions(context.Background(), "P-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	// Most recent session first.
	if sessions[0].SessionID != "S-evening" || sessions[1].SessionID != "S-morning" {
		t.Errorf("order = %s, %s", sessions[0].SessionID, sessions[1].SessionID)
	}
	morning := sessions[1]
	if morning.MessageCount != 3 || morning.PatientMessages != 2 || morning.AssistantMessages != 1 {
		t.Errorf("morning counts = %+v", morning)
	}
	if !morning.FirstMessage.Equal(at(8, 0)) {
		t.Errorf("morning first message = %v, want %v", morning.FirstMessage, at(8, 0))
	}
}

func TestSessionsEmptyPatient(t *testing.T) {
	svc := NewService(&fakeRepo{})
	sessions, err := svc.Sessions(context.Background(), "P-none")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want 0", len(sessions))
	}
}

package conversation

import (
	"context"
	"sort"
)

type Service interface {
	Append(ctx context.Context, msg *Message) (string, error)
	Messages(ctx context.Context, f Filter) ([]Message, error)

	// Sessions lists a patient's sessions sorted by the timestamp of
	// each session's first message, most recent first.
	Sessions(ctx context.Context, patientID string) ([]SessionSummary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Append(ctx context.Context, msg *Message) (string, error) {
	return s.repo.Append(ctx, msg)
}

func (s *service) Messages(ctx context.Context, f Filter) ([]Message, error) {
	return s.repo.Query(ctx, f)
}

func (s *service) Sessions(ctx context.Context, patientID string) ([]SessionSummary, error) {
	messages, err := s.repo.Query(ctx, Filter{PatientID: patientID})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*SessionSummary)
	for _, msg := range messages {
		if msg.SessionID == "" {
			continue
		}
		summary, ok := byID[msg.SessionID]
		if !ok {
			summary = &SessionSummary{
				SessionID:    msg.SessionID,
				FirstMessage: msg.Timestamp,
			}
			byID[msg.SessionID] = summary
		}
		if msg.Timestamp.Before(summary.FirstMessage) {
			summary.FirstMessage = msg.Timestamp
		}
		summary.MessageCount++
		switch msg.Role {
		case RolePatient:
			summary.PatientMessages++
		case RoleAssistant:
			summary.AssistantMessages++
		}
	}

	sessions := make([]SessionSummary, 0, len(byID))
	for _, summary := range byID {
		sessions = append(sessions, *summary)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].FirstMessage.After(sessions[j].FirstMessage)
	})
	return sessions, nil
}

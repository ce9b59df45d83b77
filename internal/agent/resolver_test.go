package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/icelab/icebreaker/internal/domain"
	"go.uber.org/zap"
)

// scriptedModel replays canned responses and records the prompts it saw.
type scriptedModel struct {
	responses []string
	prompts   []string
	err       error
}

func (m *scriptedModel) Complete(_ context.Context, prompt string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.prompts = append(m.prompts, prompt)
	index := len(m.prompts) - 1
	if index >= len(m.responses) {
		index = len(m.responses) - 1
	}
	return m.responses[index], nil
}

type fakeSearch struct {
	queries []string
	result  string
	err     error
}

func (s *fakeSearch) Search(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

func TestResolveSearchesThenAnswers(t *testing.T) {
	model := &scriptedModel{responses: []string{
		"SEARCH: Jane Doe LinkedIn",
		"FINAL: https://www.linkedin.com/in/jane-doe/",
	}}
	searchTool := &fakeSearch{result: "- Jane Doe (https://www.linkedin.com/in/jane-doe/): profile"}
	resolver := NewResolver(model, searchTool, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkProfessional)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "https://www.linkedin.com/in/jane-doe/" {
		t.Errorf("Resolve() = %q", got)
	}
	if len(searchTool.queries) != 1 || searchTool.queries[0] != "Jane Doe LinkedIn" {
		t.Errorf("search queries = %v", searchTool.queries)
	}
	// Observation must be in the transcript of the second model call.
	if !strings.Contains(model.prompts[1], "Observation:") {
		t.Errorf("second prompt missing observation:\n%s", model.prompts[1])
	}
}

func TestResolveImmediateAnswerSkipsSearch(t *testing.T) {
	model := &scriptedModel{responses: []string{"FINAL: janedoe"}}
	searchTool := &fakeSearch{}
	resolver := NewResolver(model, searchTool, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkMicroblog)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "janedoe" {
		t.Errorf("Resolve() = %q", got)
	}
	if len(searchTool.queries) != 0 {
		t.Errorf("unexpected searches: %v", searchTool.queries)
	}
}

func TestResolveExhaustsBudgetAndReturnsLastText(t *testing.T) {
	model := &scriptedModel{responses: []string{"SEARCH: jane doe twitter"}}
	searchTool := &fakeSearch{result: "No results found."}
	resolver := NewResolver(model, searchTool, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkMicroblog)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// No FINAL ever arrives: the loop stops at the cap and hands back
	// the model's last output verbatim.
	if got != "SEARCH: jane doe twitter" {
		t.Errorf("Resolve() = %q", got)
	}
	if len(model.prompts) != 5 {
		t.Errorf("model calls = %d, want 5", len(model.prompts))
	}
	if len(searchTool.queries) != 5 {
		t.Errorf("search calls = %d, want 5", len(searchTool.queries))
	}
}

func TestResolveUndirectedOutputGetsProtocolReminder(t *testing.T) {
	model := &scriptedModel{responses: []string{
		"I think the best approach is to search.",
		"FINAL: janedoe",
	}}
	resolver := NewResolver(model, &fakeSearch{}, zap.NewNop())

	got, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkMicroblog)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != "janedoe" {
		t.Errorf("Resolve() = %q", got)
	}
	if !strings.Contains(model.prompts[1], "respond with either SEARCH:") {
		t.Errorf("protocol reminder missing:\n%s", model.prompts[1])
	}
}

func TestResolveModelErrorPropagates(t *testing.T) {
	wantErr := errors.New("model unavailable")
	resolver := NewResolver(&scriptedModel{err: wantErr}, &fakeSearch{}, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkProfessional)
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestResolveSearchErrorPropagates(t *testing.T) {
	wantErr := errors.New("search down")
	model := &scriptedModel{responses: []string{"SEARCH: jane doe"}}
	resolver := NewResolver(model, &fakeSearch{err: wantErr}, zap.NewNop())

	_, err := resolver.Resolve(context.Background(), "Jane Doe", domain.NetworkProfessional)
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestResolveRejectsEmptyName(t *testing.T) {
	resolver := NewResolver(&scriptedModel{responses: []string{"FINAL: x"}}, &fakeSearch{}, zap.NewNop())

	if _, err := resolver.Resolve(context.Background(), "", domain.NetworkProfessional); err == nil {
		t.Error("Resolve() with empty name succeeded, want error")
	}
}

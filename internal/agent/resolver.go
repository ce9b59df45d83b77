// Package agent implements the profile lookup loop: a bounded
// reason-search-observe cycle that turns a person's name into a profile
// identifier on a target network.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/icelab/icebreaker/internal/domain"
	"github.com/icelab/icebreaker/internal/util"
	"go.uber.org/zap"
)

// State is the lookup loop's current phase.
type State string

const (
	StateThinking  State = "THINKING"
	StateActing    State = "ACTING"
	StateObserving State = "OBSERVING"
	StateDone      State = "DONE"
	StateExhausted State = "EXHAUSTED"
)

// LanguageModel is the injected reasoning capability.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SearchTool is the injected web-search capability.
type SearchTool interface {
	Search(ctx context.Context, query string) (string, error)
}

const (
	maxIterations = 5

	searchDirective = "SEARCH:"
	finalDirective  = "FINAL:"
)

// Resolver drives the lookup loop over injected capabilities.
type Resolver struct {
	model  LanguageModel
	search SearchTool
	logger *zap.Logger
}

func NewResolver(model LanguageModel, search SearchTool, logger *zap.Logger) *Resolver {
	return &Resolver{
		model:  model,
		search: search,
		logger: logger,
	}
}

// Resolve returns the best-guess profile identifier for the person on
// the given network: a full URL for the professional network, a bare
// handle for the microblogging network.
//
// When the iteration budget runs out without a final answer, the last
// text the model produced is returned as-is. There is no distinct
// "not found" outcome; callers must tolerate extraneous text.
// Model and search failures propagate unmodified.
func (r *Resolver) Resolve(ctx context.Context, personName string, network domain.Network) (string, error) {
	if personName == "" {
		return "", fmt.Errorf("person name must not be empty")
	}

	transcript := buildInstructions(personName, network)
	state := StateThinking
	lastText := ""

	for iteration := 1; iteration <= maxIterations; iteration++ {
		state = StateThinking
		output, err := r.model.Complete(ctx, transcript)
		if err != nil {
			return "", fmt.Errorf("lookup reasoning failed: %w", err)
		}
		lastText = strings.TrimSpace(output)

		state = StateActing
		r.logger.Debug("Lookup step",
			zap.String("network", string(network)),
			zap.Int("iteration", iteration),
			zap.String("output", util.TruncateString(lastText, 200)),
		)

		if answer, ok := cutDirective(lastText, finalDirective); ok {
			state = StateDone
			r.logger.Info("Lookup resolved",
				zap.String("network", string(network)),
				zap.String("state", string(state)),
				zap.Int("iterations", iteration),
			)
			return answer, nil
		}

		query, ok := cutDirective(lastText, searchDirective)
		if !ok {
			// Undirected output: feed the protocol back and let the
			// model try again within the remaining budget.
			transcript += "\n" + lastText +
				"\nObservation: respond with either SEARCH: <query> or FINAL: <answer>."
			continue
		}

		observation, err := r.search.Search(ctx, query)
		if err != nil {
			return "", fmt.Errorf("lookup search failed: %w", err)
		}

		state = StateObserving
		transcript += fmt.Sprintf("\n%s %s\nObservation:\n%s", searchDirective, query, observation)
	}

	state = StateExhausted
	r.logger.Warn("Lookup budget exhausted, returning best-effort text",
		zap.String("network", string(network)),
		zap.String("state", string(state)),
		zap.String("text", util.TruncateString(lastText, 120)),
	)
	return lastText, nil
}

func cutDirective(text, directive string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, directive) {
			return strings.TrimSpace(strings.TrimPrefix(line, directive)), true
		}
	}
	return "", false
}

func buildInstructions(personName string, network domain.Network) string {
	var task string
	switch network {
	case domain.NetworkProfessional:
		task = fmt.Sprintf(`Given the full name %q, find the link to their LinkedIn profile page.
Your final answer must contain only a URL in the format: https://www.linkedin.com/in/profile-name/`, personName)
	case domain.NetworkMicroblog:
		task = fmt.Sprintf(`Given the full name %q, find their Twitter/X profile page and extract their username.
Your final answer must contain only the bare username without the @ symbol.
For example, if the profile is https://x.com/johndoe, answer: johndoe`, personName)
	default:
		task = fmt.Sprintf("Given the full name %q, find their public social profile.", personName)
	}

	return task + `

You have one tool available: a web search.
To search, respond with a single line: SEARCH: <query>
When you know the answer, respond with a single line: FINAL: <answer>
Use at most one directive per response.`
}

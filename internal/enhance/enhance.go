// Package enhance refines a heuristic draft through a locally-running
// language model. Unavailability is a defined fallback path, not an error:
// Refine returns (zero, false) and the caller keeps the heuristic result.
package enhance

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/gobacklog/internal/llm"
)

const (
	// maxTextChars bounds the prompt to stay inside small local-model
	// context windows.
	maxTextChars = 6000
	// minTextChars below which refinement is pointless.
	minTextChars = 50

	defaultTimeout      = 60 * time.Second
	defaultProbeTimeout = 2 * time.Second
)

const systemMessage = "You extract document metadata. Respond with strict JSON only, no narration. The JSON schema is {\"title\": string, \"summary\": string, \"suggested_tags\": string[2..4]}. The title must be the document's actual title. The summary is 2-3 concise sentences. Tags are lowercase single words."

// Refinement is the model's suggested replacement metadata.
type Refinement struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	SuggestedTags []string `json:"suggested_tags"`
}

// Hint carries the heuristic extraction result as context for the model.
type Hint struct {
	Title   string
	Summary string
}

// Refiner calls an OpenAI-compatible endpoint to refine extracted text.
// A nil Client disables refinement entirely.
type Refiner struct {
	Client llm.Client
	Model  string
	// Timeout bounds the completion call. Model inference is slower than a
	// page fetch, so this is independent of the fetch timeout.
	Timeout time.Duration
	// ProbeTimeout bounds the reachability check.
	ProbeTimeout time.Duration
}

// Refine returns refined metadata and true, or the zero value and false
// when the model is unavailable, errors, times out, or returns output that
// cannot be parsed. It never returns an error.
func (r *Refiner) Refine(ctx context.Context, text string, hint Hint) (Refinement, bool) {
	if r == nil || r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return Refinement{}, false
	}
	text = strings.TrimSpace(text)
	if len(text) < minTextChars {
		return Refinement{}, false
	}
	if len(text) > maxTextChars {
		cut := maxTextChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "\n\n[text truncated]"
	}

	if !r.reachable(ctx) {
		log.Debug().Str("model", r.Model).Msg("model service unreachable, keeping heuristic metadata")
		return Refinement{}, false
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := r.Client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(text, hint)},
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		log.Debug().Err(err).Msg("enhancement call failed, keeping heuristic metadata")
		return Refinement{}, false
	}
	if len(resp.Choices) == 0 {
		return Refinement{}, false
	}

	ref, ok := parseResponse(resp.Choices[0].Message.Content)
	if !ok {
		log.Debug().Msg("enhancement returned unparseable output, keeping heuristic metadata")
		return Refinement{}, false
	}
	return ref, true
}

// reachable probes the endpoint with a short deadline. Listing models is
// cheap on local runtimes and fails fast when nothing is listening.
func (r *Refiner) reachable(ctx context.Context) bool {
	lister, ok := r.Client.(llm.ModelLister)
	if !ok {
		// No probe capability; let the completion call decide.
		return true
	}
	timeout := r.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := lister.ListModels(probeCtx)
	return err == nil
}

func buildUserMessage(text string, hint Hint) string {
	var sb strings.Builder
	sb.WriteString("Document text:\n\n")
	sb.WriteString(text)
	if hint.Title != "" {
		sb.WriteString("\n\nHeuristic title (may be wrong): ")
		sb.WriteString(hint.Title)
	}
	if hint.Summary != "" {
		sb.WriteString("\nHeuristic summary (may be wrong): ")
		sb.WriteString(hint.Summary)
	}
	sb.WriteString("\n\nJSON response:")
	return sb.String()
}

// parseResponse accepts strict JSON and salvages the common failure mode
// of a model wrapping the object in prose or a code fence.
func parseResponse(raw string) (Refinement, bool) {
	raw = strings.TrimSpace(raw)
	var ref Refinement
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return Refinement{}, false
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &ref); err != nil {
			return Refinement{}, false
		}
	}
	ref.Title = strings.TrimSpace(ref.Title)
	ref.Summary = strings.TrimSpace(ref.Summary)
	if ref.Title == "" || ref.Summary == "" {
		return Refinement{}, false
	}
	return ref, true
}

package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

type stubClient struct {
	listErr error
	callErr error
	content string
	called  bool
	prompt  string
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.called = true
	if n := len(req.Messages); n > 0 {
		s.prompt = req.Messages[n-1].Content
	}
	if s.callErr != nil {
		return openai.ChatCompletionResponse{}, s.callErr
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func (s *stubClient) ListModels(_ context.Context) (openai.ModelsList, error) {
	if s.listErr != nil {
		return openai.ModelsList{}, s.listErr
	}
	return openai.ModelsList{}, nil
}

func longText() string {
	return strings.Repeat("Concurrency patterns for services under load. ", 10)
}

func TestRefine_Success(t *testing.T) {
	stub := &stubClient{content: `{"title":"Better Title","summary":"A tight summary.","suggested_tags":["go","concurrency"]}`}
	r := &Refiner{Client: stub, Model: "llama3.2"}

	ref, ok := r.Refine(context.Background(), longText(), Hint{Title: "raw title"})
	if !ok {
		t.Fatalf("expected refinement")
	}
	if ref.Title != "Better Title" || ref.Summary != "A tight summary." {
		t.Fatalf("unexpected refinement: %+v", ref)
	}
	if len(ref.SuggestedTags) != 2 {
		t.Fatalf("unexpected tags: %v", ref.SuggestedTags)
	}
}

func TestRefine_UnreachableIsNotAnError(t *testing.T) {
	stub := &stubClient{listErr: errors.New("connection refused")}
	r := &Refiner{Client: stub, Model: "llama3.2"}

	_, ok := r.Refine(context.Background(), longText(), Hint{})
	if ok {
		t.Fatalf("expected fallback when probe fails")
	}
	if stub.called {
		t.Fatalf("completion must not be called when the probe fails")
	}
}

func TestRefine_CallErrorFallsBack(t *testing.T) {
	stub := &stubClient{callErr: errors.New("boom")}
	r := &Refiner{Client: stub, Model: "llama3.2"}

	if _, ok := r.Refine(context.Background(), longText(), Hint{}); ok {
		t.Fatalf("expected fallback on call error")
	}
}

func TestRefine_ShortTextSkipsCall(t *testing.T) {
	stub := &stubClient{content: `{"title":"t","summary":"s"}`}
	r := &Refiner{Client: stub, Model: "llama3.2"}

	if _, ok := r.Refine(context.Background(), "too short", Hint{}); ok {
		t.Fatalf("expected skip for short text")
	}
	if stub.called {
		t.Fatalf("completion must not be called for short text")
	}
}

func TestRefine_TruncationKeepsValidUTF8(t *testing.T) {
	stub := &stubClient{content: `{"title":"t","summary":"s"}`}
	r := &Refiner{Client: stub, Model: "llama3.2"}

	// Two-byte runes put every odd byte offset inside a rune, so a byte
	// slice at maxTextChars would split one.
	text := strings.Repeat("é", maxTextChars)
	if _, ok := r.Refine(context.Background(), text, Hint{}); !ok {
		t.Fatalf("expected refinement")
	}
	if !utf8.ValidString(stub.prompt) {
		t.Fatalf("truncated prompt contains a split rune")
	}
	if !strings.Contains(stub.prompt, "[text truncated]") {
		t.Fatalf("long text must carry the truncation marker")
	}
}

func TestRefine_NilClient(t *testing.T) {
	var r *Refiner
	if _, ok := r.Refine(context.Background(), longText(), Hint{}); ok {
		t.Fatalf("nil refiner must fall back")
	}
	r = &Refiner{}
	if _, ok := r.Refine(context.Background(), longText(), Hint{}); ok {
		t.Fatalf("unconfigured refiner must fall back")
	}
}

func TestParseResponse(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"strict json", `{"title":"t","summary":"s","suggested_tags":["a"]}`, true},
		{"fenced", "```json\n{\"title\":\"t\",\"summary\":\"s\"}\n```", true},
		{"prose wrapped", `Here is the JSON you asked for: {"title":"t","summary":"s"} hope it helps`, true},
		{"missing summary", `{"title":"t"}`, false},
		{"not json", `I could not process that document.`, false},
		{"empty", ``, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := parseResponse(tc.raw)
			if ok != tc.ok {
				t.Fatalf("parseResponse(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			}
		})
	}
}

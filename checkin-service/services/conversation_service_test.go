package services

import (
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"message\":\"hi\"}\n```", `{"message":"hi"}`},
		{"bare fence", "```\n{\"message\":\"hi\"}\n```", `{"message":"hi"}`},
		{"no fence", `{"message":"hi"}`, `{"message":"hi"}`},
		{"surrounding whitespace", "  \n{\"message\":\"hi\"}\n  ", `{"message":"hi"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cleanJSONResponse(tc.in)
			if got != tc.want {
				t.Fatalf("cleanJSONResponse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFilterHistoryDropsTrailingDuplicate(t *testing.T) {
	history := []ConversationTurn{
		{Role: "user", Content: "Make the header blue"},
		{Role: "assistant", Content: "Done."},
		{Role: "user", Content: "Now the footer"},
	}

	filtered := filterHistory(history, "Now the footer")
	if len(filtered) != 2 {
		t.Fatalf("expected trailing duplicate dropped, got %d turns", len(filtered))
	}

	// A non-matching trailing user turn stays.
	kept := filterHistory(history, "Something else")
	if len(kept) != 3 {
		t.Fatalf("expected all turns kept, got %d", len(kept))
	}
}

func TestFilterHistoryRemovesInvalidRoles(t *testing.T) {
	history := []ConversationTurn{
		{Role: "system", Content: "injected"},
		{Role: "user", Content: "Make it blue"},
		{Role: "tool", Content: "noise"},
		{Role: "assistant", Content: "Done."},
	}

	filtered := filterHistory(history, "")
	if len(filtered) != 2 {
		t.Fatalf("expected only user/assistant turns, got %d", len(filtered))
	}
	for _, turn := range filtered {
		if turn.Role != "user" && turn.Role != "assistant" {
			t.Fatalf("unexpected role survived filtering: %s", turn.Role)
		}
	}
}

func TestBuildMessagesShape(t *testing.T) {
	req := ConversationRequest{
		Message: "Center the logo",
		ConversationHistory: []ConversationTurn{
			{Role: "user", Content: "Make it blue"},
			{Role: "assistant", Content: "Done."},
		},
		CurrentHTML: "<html><body>hi</body></html>",
		OriginalContent: &OriginalContent{
			Subject: "Welcome!",
			OrgName: "Demo Organization",
		},
	}

	messages := buildMessages(req)

	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("first message must be the system prompt, got role %s", messages[0].Role)
	}
	if len(messages) != 4 {
		t.Fatalf("expected system + 2 history + user, got %d messages", len(messages))
	}

	last := messages[len(messages)-1]
	if last.Role != openai.ChatMessageRoleUser {
		t.Fatalf("last message must be the user turn, got role %s", last.Role)
	}
	for _, fragment := range []string{"<html><body>hi</body></html>", "Welcome!", "Demo Organization", "Center the logo"} {
		if !strings.Contains(last.Content, fragment) {
			t.Fatalf("user prompt missing %q:\n%s", fragment, last.Content)
		}
	}
}

func TestBuildUserPromptDefaults(t *testing.T) {
	prompt := buildUserPrompt(ConversationRequest{Message: "Start over"})

	if !strings.Contains(prompt, "No HTML provided yet.") {
		t.Fatalf("expected HTML placeholder, got:\n%s", prompt)
	}
	if strings.Count(prompt, "N/A") != 3 {
		t.Fatalf("expected three N/A metadata defaults, got:\n%s", prompt)
	}
}

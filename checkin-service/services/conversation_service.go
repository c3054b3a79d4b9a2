package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"rollcall-backend/shared/config"
)

// systemPrompt fixes the assistant's role and the JSON contract the model
// must answer with.
const systemPrompt = `You are an expert HTML email designer and frontend developer.
Your goal is to help users customize their email designs through conversation.

CONTEXT:
You have access to the current HTML of the email.
You will receive a conversation history to understand the context of changes (e.g., "Make it blue" after discussing the header means "Make the header blue").

INSTRUCTIONS:
1. Parse the user's request in the context of the conversation history.
2. If the user asks for a visual change (color, layout, font, spacing, adding/removing elements), YOU MUST update the HTML code.
3. If the user asks for content changes, update the text within the HTML.
4. Ensure all HTML is valid, inline-styled (for email compatibility), and responsive.
5. If the request is vague, ask for clarification but also offer a best-guess change if possible.
6. Provide 3 short, relevant follow-up suggestions for the user.

OUTPUT FORMAT:
You MUST respond with a valid JSON object. Do not include any markdown formatting or explanation outside the JSON.
{
  "message": "A conversational response explaining what you did or asking for clarification.",
  "updatedHtml": "The complete, modified HTML string. Return null if no changes were made to the HTML.",
  "suggestions": ["Suggestion 1", "Suggestion 2", "Suggestion 3"],
  "changesSummary": "A brief technical summary of changes (e.g., 'Changed header background to #0000FF') or null."
}`

// fallbackMessage keeps the conversation usable when the model answers
// with something that is not the contracted JSON shape.
const fallbackMessage = "I made some changes, but there was an error processing the output. Please try again."

const maxCompletionTokens = 4000

// ConversationTurn is one prior message of the editing conversation.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OriginalContent is the metadata of the email the template started from.
type OriginalContent struct {
	Subject string `json:"subject"`
	OrgName string `json:"orgName"`
	Message string `json:"message"`
}

// ConversationRequest is one turn of the template-editing conversation.
type ConversationRequest struct {
	Message             string             `json:"message"`
	ConversationHistory []ConversationTurn `json:"conversationHistory"`
	CurrentHTML         string             `json:"currentHtml"`
	OriginalContent     *OriginalContent   `json:"originalContent"`
	IsInitialGreeting   bool               `json:"isInitialGreeting"`
}

// ConversationResponse is passed through to the caller unmodified on a
// successful parse; on malformed model output it is the soft fallback.
type ConversationResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	UpdatedHTML    *string  `json:"updatedHtml"`
	Suggestions    []string `json:"suggestions"`
	ChangesSummary *string  `json:"changesSummary"`
}

// ConversationService drives the template editor against the OpenAI API.
type ConversationService struct {
	client *openai.Client
	model  string
}

// NewConversationService creates a conversation service from configuration
func NewConversationService(cfg *config.Config) *ConversationService {
	return &ConversationService{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		model:  cfg.OpenAIModel,
	}
}

// Converse sends one editing turn to the model and returns the structured
// reply. Malformed model output is NOT an error: the raw content is logged
// and a soft fallback response is returned so the conversation survives.
func (s *ConversationService) Converse(ctx context.Context, req ConversationRequest) (*ConversationResponse, error) {
	completion, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    buildMessages(req),
		Temperature: 0.7,
		MaxTokens:   maxCompletionTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, errors.New("no response from AI")
	}

	raw := completion.Choices[0].Message.Content

	var parsed struct {
		Message        string   `json:"message"`
		UpdatedHTML    *string  `json:"updatedHtml"`
		Suggestions    []string `json:"suggestions"`
		ChangesSummary *string  `json:"changesSummary"`
	}
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &parsed); err != nil {
		log.Printf("❌ AI response JSON parse error: %v", err)
		log.Printf("❌ Raw AI content: %s", raw)
		return &ConversationResponse{
			Success:     true,
			Message:     fallbackMessage,
			Suggestions: []string{},
		}, nil
	}

	if parsed.Suggestions == nil {
		parsed.Suggestions = []string{}
	}

	return &ConversationResponse{
		Success:        true,
		Message:        parsed.Message,
		UpdatedHTML:    parsed.UpdatedHTML,
		Suggestions:    parsed.Suggestions,
		ChangesSummary: parsed.ChangesSummary,
	}, nil
}

// buildMessages assembles the system prompt, the filtered conversation
// history, and the current template context into the model's message list.
func buildMessages(req ConversationRequest) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
	}

	for _, turn := range filterHistory(req.ConversationHistory, req.Message) {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: buildUserPrompt(req),
	})

	return messages
}

// filterHistory keeps only user/assistant turns and drops a trailing user
// turn that duplicates the current message (frontends add it to the
// history optimistically before the round trip completes).
func filterHistory(history []ConversationTurn, currentMessage string) []ConversationTurn {
	var valid []ConversationTurn
	for _, turn := range history {
		if turn.Role == openai.ChatMessageRoleUser || turn.Role == openai.ChatMessageRoleAssistant {
			valid = append(valid, turn)
		}
	}

	if n := len(valid); n > 0 {
		last := valid[n-1]
		if last.Role == openai.ChatMessageRoleUser && last.Content == currentMessage {
			valid = valid[:n-1]
		}
	}

	return valid
}

// buildUserPrompt renders the current template plus original content
// metadata around the new user request
func buildUserPrompt(req ConversationRequest) string {
	currentHTML := req.CurrentHTML
	if currentHTML == "" {
		currentHTML = "No HTML provided yet."
	}

	subject, orgName, original := "N/A", "N/A", "N/A"
	if req.OriginalContent != nil {
		if req.OriginalContent.Subject != "" {
			subject = req.OriginalContent.Subject
		}
		if req.OriginalContent.OrgName != "" {
			orgName = req.OriginalContent.OrgName
		}
		if req.OriginalContent.Message != "" {
			original = req.OriginalContent.Message
		}
	}

	var b strings.Builder
	b.WriteString("CURRENT EMAIL HTML:\n")
	b.WriteString(currentHTML)
	b.WriteString("\n\nORIGINAL CONTENT METADATA:\n")
	b.WriteString("Subject: " + subject + "\n")
	b.WriteString("Org Name: " + orgName + "\n")
	b.WriteString("Original Text: " + original + "\n")
	b.WriteString("\nUSER REQUEST:\n")
	b.WriteString(req.Message)
	return b.String()
}

// cleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON despite the response-format instruction
func cleanJSONResponse(response string) string {
	cleaned := strings.TrimSpace(response)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

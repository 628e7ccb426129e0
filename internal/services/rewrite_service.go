// Package services – RewriteService
//
// This file implements the optional AI variation step: before a resident's
// email is composed, the personalized template can be rephrased by a
// text-generation model so each message reads uniquely while keeping every
// fact and request intact. The step is best-effort: any failure (no key,
// network, upstream error, empty reply) falls back to the original content,
// never blocking a submission.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// rewriteSystemPrompt instructs the model to vary wording only. The
// constituent context is appended per request.
const rewriteSystemPrompt = `You are an expert assistant that helps create variations of emails to MPs about phone theft concerns in the campaign area.
Your task is to rephrase the email content to make it unique while preserving:
1. All key facts and requests
2. The overall tone and urgency
3. The personal information provided by the constituent

Make these specific changes:
- Vary sentence structures and paragraph organizations
- Use different synonyms and phrases
- Ensure the email remains professional and respectful
- Keep the same key points and requests
- DO NOT invent new facts or claims
- DO NOT change any specific data points or statistics
- Your output should ONLY be the modified email content, nothing else
- The content should remain similar in length to the original`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// RewriteService produces wording variations of campaign emails via the
// OpenAI chat-completions API. The zero value is a disabled service.
type RewriteService struct {
	// APIKey enables the service when non-empty.
	APIKey string
	// Model selects the completion model (e.g. "gpt-4o").
	Model string
	// BaseURL overrides the API endpoint; tests point it at a local server.
	BaseURL string
	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Enabled reports whether the service is configured to make API calls.
func (s *RewriteService) Enabled() bool { return s.APIKey != "" }

// Vary returns a rephrased version of content for the given constituent, or
// the original content unchanged when the service is disabled or the call
// fails. It never returns an error: variation is an enhancement, not a
// dependency of the submission flow.
func (s *RewriteService) Vary(ctx context.Context, content, fullName, pc string) string {
	if !s.Enabled() {
		return content
	}
	out, err := s.rewrite(ctx, content, fullName, pc)
	if err != nil {
		log.Warn().Err(err).Msg("email variation failed, using original content")
		return content
	}
	return out
}

func (s *RewriteService) rewrite(ctx context.Context, content, fullName, pc string) (string, error) {
	system := fmt.Sprintf("%s\n\nThe constituent's name is %s and they live in %s.", rewriteSystemPrompt, fullName, pc)
	body, err := json.Marshal(chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: content},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", err
	}

	base := s.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("completion API returned no content")
	}
	return parsed.Choices[0].Message.Content, nil
}

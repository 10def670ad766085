package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/snapcap/internal/domain"
	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/prompts"
)

// ErrMissingToken is returned when caption generation is attempted without
// an API token. It is reported before any network call, distinct from
// runtime failures of the text service.
var ErrMissingToken = errors.New("caption API token is not configured")

// FallbackThink is the think value recorded when the templated fallback
// captions were used instead of a model reply.
const FallbackThink = "Generated fallback captions due to model error"

// historyCaptionLimit caps the short caption copy persisted to history.
const historyCaptionLimit = 180

// CaptionConfig holds configuration for the caption generation service.
type CaptionConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// CaptionService generates social-media caption variants from an image
// description using an OpenAI-compatible chat completion endpoint.
type CaptionService struct {
	client   *resty.Client
	endpoint string
	model    string
	apiKey   string
}

// NewCaptionService creates a caption service client.
func NewCaptionService(cfg *CaptionConfig) *CaptionService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://router.huggingface.co/v1"
	}

	return &CaptionService{
		client:   client,
		endpoint: baseURL + "/chat/completions",
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
	}
}

// Model returns the default model identifier.
func (s *CaptionService) Model() string { return s.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CaptionResult is the outcome of one generation request.
type CaptionResult struct {
	Captions domain.CaptionSet
	Think    string
}

// Generate produces a caption set for a description. The tone selects the
// platform instruction block and modelOverride replaces the configured
// default model for this request only. A missing API token fails fast with
// ErrMissingToken; any failure of the text service call itself is absorbed
// into the templated fallback, so once a token is present Generate always
// succeeds.
func (s *CaptionService) Generate(ctx context.Context, description string, tone domain.Tone, modelOverride string) (*CaptionResult, error) {
	if s.apiKey == "" {
		return nil, ErrMissingToken
	}

	model := s.model
	if modelOverride != "" {
		model = modelOverride
	}

	content, err := s.complete(ctx, model, prompts.CaptionPrompt(description, tone))
	if err != nil {
		logger.CtxWarn(ctx, "caption generation failed, using fallback: %v", err)
		return &CaptionResult{
			Captions: FallbackCaptions(description),
			Think:    FallbackThink,
		}, nil
	}

	captions, think := ParseCaptionReply(content)
	return &CaptionResult{Captions: captions, Think: think}, nil
}

// complete performs the chat completion call and returns the raw message
// content. All failure modes (transport, status, empty choices) come back as
// errors for the caller to absorb.
func (s *CaptionService) complete(ctx context.Context, model, prompt string) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   512,
		Temperature: 0.7,
		TopP:        0.95,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("failed to call caption API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return "", fmt.Errorf("caption API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("caption API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if resp.Error != nil {
		return "", fmt.Errorf("caption API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from caption API (status: %d)", httpResp.StatusCode())
	}

	return resp.Choices[0].Message.Content, nil
}

// FallbackCaptions derives a deterministic templated caption set from the
// description alone. It is a pure function and never fails.
func FallbackCaptions(description string) domain.CaptionSet {
	return domain.CaptionSet{
		Short:      fmt.Sprintf("Capturing moments in %s... #Life #Moments #Joy", prefixRunes(description, 50)),
		Story:      fmt.Sprintf("Every journey tells a story. This moment captures the essence of %s... #Story #Journey #Life", prefixRunes(description, 30)),
		Philosophy: fmt.Sprintf("Life is about finding beauty in simple moments. %s... #Philosophy #Life #Beauty", prefixRunes(description, 40)),
		Lifestyle:  fmt.Sprintf("Living life to the fullest. %s... #Lifestyle #Living #Adventure", prefixRunes(description, 35)),
		Quote:      fmt.Sprintf("Inspiration found in %s... #Inspiration #Motivation #Life", prefixRunes(description, 40)),
	}
}

// TruncateForHistory returns the storage copy of a short caption, capped
// with an ellipsis. The caller-facing caption set stays untruncated.
func TruncateForHistory(caption string) string {
	caption = strings.TrimSpace(caption)
	if len([]rune(caption)) > historyCaptionLimit {
		return string([]rune(caption)[:historyCaptionLimit]) + "..."
	}
	return caption
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

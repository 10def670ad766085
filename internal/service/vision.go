package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/timmy/snapcap/internal/logger"
	"github.com/timmy/snapcap/internal/prompts"
)

// Describer generates an English description of an image. It fronts the
// vision model service so handlers can be tested against a stub.
type Describer interface {
	// Name returns the name of the backing model service.
	Name() string

	// DescribeImage returns a cleaned description of the provided image
	// bytes. The image must be a complete JPEG or PNG file.
	DescribeImage(ctx context.Context, image []byte) (string, error)
}

// VisionConfig holds configuration for the vision description service.
type VisionConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// VisionService calls an Ollama-style streaming generate endpoint. The
// service answers in newline-delimited JSON chunks, each carrying one text
// fragment; fragments are concatenated in arrival order.
type VisionService struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewVisionService creates a vision service client.
func NewVisionService(cfg *VisionConfig) *VisionService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionService{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
}

// Name returns the backing model identifier.
func (s *VisionService) Name() string { return s.model }

type visionRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
}

type visionChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// DescribeImage sends the image to the vision model and collects the
// streamed response. Malformed chunks are skipped without aborting the
// stream; transport and status errors surface to the caller, there is no
// fallback on this path. The concatenated text is returned after hedge
// cleanup via CleanSummary.
func (s *VisionService) DescribeImage(ctx context.Context, image []byte) (string, error) {
	payload := visionRequest{
		Model:  s.model,
		Prompt: prompts.VisionPrompt,
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build vision request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call vision API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("vision API returned error: HTTP %d: %s", resp.StatusCode, string(snippet))
	}

	var description strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk visionChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Malformed chunk, treat as an empty fragment
			logger.CtxDebug(ctx, "skipping malformed vision chunk: %v", err)
			continue
		}
		description.WriteString(chunk.Response)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read vision stream: %w", err)
	}

	return CleanSummary(description.String()), nil
}

var (
	hedgePatterns     = compileHedgeRules(prompts.HedgeRules)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func compileHedgeRules(rules []prompts.HedgeRule) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(rules))
	for _, rule := range rules {
		expr := `(?i)` + regexp.QuoteMeta(rule.Trigger) + `[\s\S]*?` + regexp.QuoteMeta(rule.Terminator)
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	return compiled
}

// CleanSummary strips speculative hedging sentences from a description by
// applying the rules in prompts.HedgeRules in order, then collapses runs of
// whitespace to single spaces and trims the result. Applying it a second
// time yields the same string.
func CleanSummary(text string) string {
	for _, pattern := range hedgePatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/langtogether/langtogether-api/internal/config"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the part of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator drafts flashcards with a Gemini model.
type Generator struct {
	models     contentGenerator
	model      string
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator from cfg. cfg.GeminiAPIKey must be set.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, cfg, logger), nil
}

func newGenerator(models contentGenerator, cfg config.LLMConfig, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generator{
		models:     models,
		model:      cfg.ModelName,
		maxRetries: maxRetries,
		baseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		sleep:      sleepContext,
		logger:     logger.With(slog.String("component", "gemini_generator")),
	}
}

// GenerateCards implements generation.Generator.
func (g *Generator) GenerateCards(ctx context.Context, sourceText string, count int) ([]domain.CardContent, error) {
	if err := generation.ValidateRequest(sourceText, count); err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(strings.TrimSpace(sourceText), count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	resp, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cards, err := parseCards(resp, count)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable model response", slog.String("error", err.Error()))
		return nil, err
	}

	g.logger.InfoContext(ctx, "cards generated",
		slog.Int("requested", count),
		slog.Int("generated", len(cards)))
	return cards, nil
}

// callWithRetry calls the model up to maxRetries+1 times. Only API errors
// are retried; blocked and malformed responses fail immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	for attempt := 0; ; attempt++ {
		resp, err := g.models.GenerateContent(ctx, g.model, contents, cfg)
		if err == nil {
			return decodeResponse(resp)
		}

		g.logger.WarnContext(ctx, "gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))

		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, g.maxRetries, err)
		}

		// delay = base * 2^attempt * [0.5, 1.0)
		backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rand.Float64()*0.5))
		if err := g.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
	}
}

func decodeResponse(resp *genai.GenerateContentResponse) (*responseSchema, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content", generation.ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(stripCodeFence(text.String())), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// parseCards keeps at most limit well-formed cards, dropping blank and
// repeated fronts.
func parseCards(resp *responseSchema, limit int) ([]domain.CardContent, error) {
	seen := make(map[string]bool, len(resp.Cards))
	cards := make([]domain.CardContent, 0, len(resp.Cards))
	for _, c := range resp.Cards {
		front := strings.TrimSpace(c.Front)
		back := strings.TrimSpace(c.Back)
		if front == "" || back == "" || seen[strings.ToLower(front)] {
			continue
		}
		seen[strings.ToLower(front)] = true
		cards = append(cards, domain.CardContent{Front: front, Back: back})
		if len(cards) == limit {
			break
		}
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, ErrNoCards)
	}
	return cards, nil
}

// stripCodeFence removes a ```json fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

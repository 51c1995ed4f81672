package seo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/yuwenliu/ytman/internal/catalog"
	"github.com/yuwenliu/ytman/internal/config"
	"github.com/yuwenliu/ytman/internal/ratelimit"
)

// Optimizer generates SEO metadata through an LLM. Every call is gated by
// the shared rate limiter so bursts of videos stay within the provider quota.
type Optimizer struct {
	llm       llms.Model
	modelName string
	limiter   *ratelimit.Limiter
}

// NewOptimizer creates an optimizer backed by the configured LLM provider.
func NewOptimizer(cfg config.Config, limiter *ratelimit.Limiter) (*Optimizer, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Optimizer{
		llm:       model,
		modelName: cfg.LLMModel,
		limiter:   limiter,
	}, nil
}

// NewOptimizerWithModel wires an optimizer around an existing model. Used by
// tests and callers that manage the model themselves.
func NewOptimizerWithModel(model llms.Model, modelName string, limiter *ratelimit.Limiter) *Optimizer {
	return &Optimizer{llm: model, modelName: modelName, limiter: limiter}
}

// Model returns the LLM model name.
func (o *Optimizer) Model() string {
	return o.modelName
}

func (o *Optimizer) generate(ctx context.Context, prompt string) (string, error) {
	if o.limiter != nil {
		o.limiter.Acquire()
	}
	response, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// GenerateMetadata produces an optimized bilingual draft for an existing
// video. The draft's language follows the video's detected primary language.
func (o *Optimizer) GenerateMetadata(ctx context.Context, req GenerateRequest) (*catalog.MetadataDraft, error) {
	response, err := o.generate(ctx, buildMetadataPrompt(req))
	if err != nil {
		return nil, err
	}

	draft, err := parseDraft(response)
	if err != nil {
		return nil, fmt.Errorf("parse metadata for %q: %w", req.Title, err)
	}
	return draft, nil
}

// GenerateNewVideoMetadata produces a draft from scratch for a video that
// has not been uploaded yet.
func (o *Optimizer) GenerateNewVideoMetadata(ctx context.Context, topic, locations, keyPoints string) (*catalog.MetadataDraft, error) {
	response, err := o.generate(ctx, buildNewVideoPrompt(topic, locations, keyPoints))
	if err != nil {
		return nil, err
	}

	draft, err := parseDraft(response)
	if err != nil {
		return nil, fmt.Errorf("parse metadata for topic %q: %w", topic, err)
	}
	return draft, nil
}

// CompressDescription rewrites text to fit maxLen runes. Text already within
// budget is returned unchanged. The LLM output is re-checked and truncated at
// a sentence boundary when the model overshoots; on LLM failure the original
// text is truncated deterministically instead.
func (o *Optimizer) CompressDescription(ctx context.Context, text string, maxLen int, title string) (string, error) {
	if len([]rune(text)) <= maxLen {
		return text, nil
	}

	response, err := o.generate(ctx, buildCompressPrompt(text, maxLen, title))
	if err != nil {
		slog.Warn("description compression failed, falling back to truncation", "error", err)
		truncated, _ := TruncateAtSentence(text, maxLen)
		return truncated, nil
	}

	compressed, cut := TruncateAtSentence(response, maxLen)
	if cut {
		slog.Debug("compressed description still over budget, truncated",
			"limit", maxLen, "got", len([]rune(response)))
	}
	return compressed, nil
}

package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/hearmony/backend/internal/model/emotion"
)

var ErrUnknownLabel = errors.New("unknown emotion label")

const (
	SourceLLM     = "llm"
	SourceCatalog = "catalog"

	maxSuggestions = 3
)

// Config 控制建议生成服务的行为。
type Config struct {
	Enabled bool
}

// Insight is a set of suggestions tailored to one emotion.
type Insight struct {
	Emotion     emotion.Label `json:"emotion"`
	Emoji       string        `json:"emoji"`
	Color       string        `json:"color"`
	Suggestions []string      `json:"suggestions"`
	Source      string        `json:"source"`
}

type invoker interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
}

// Service 使用大模型生成个性化建议，失败时回退到静态目录。
type Service struct {
	enabled   bool
	generator invoker
	catalog   emotion.Catalog
	log       zerolog.Logger
	sf        singleflight.Group
}

// NewService creates the insight service. chatModel may be nil.
func NewService(ctx context.Context, chatModel model.ChatModel, catalog emotion.Catalog, cfg Config, logger zerolog.Logger) (*Service, error) {
	svc := &Service{
		enabled: cfg.Enabled && chatModel != nil,
		catalog: catalog,
		log:     logger.With().Str("component", "insight").Logger(),
	}

	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(insightSystemPrompt),
		schema.UserMessage(insightUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile insight chain: %w", err)
	}

	svc.generator = runnable
	return svc, nil
}

// Enabled 返回是否启用了大模型建议。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.generator != nil
}

// Suggest returns suggestions for a known label.
func (s *Service) Suggest(ctx context.Context, label emotion.Label) (Insight, error) {
	profile, ok := s.catalog.FindByLabel(label)
	if !ok {
		return Insight{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	insight := Insight{
		Emotion:     profile.Label,
		Emoji:       profile.Emoji,
		Color:       profile.Color,
		Suggestions: profile.Suggestions,
		Source:      SourceCatalog,
	}
	if !s.Enabled() {
		return insight, nil
	}

	// 同一情绪的并发请求只调用一次模型
	v, err, _ := s.sf.Do(string(profile.Label), func() (any, error) {
		return s.generate(ctx, profile)
	})
	if err != nil {
		s.log.Warn().Err(err).Str("emotion", string(label)).Msg("insight generation failed, use catalog")
		return insight, nil
	}
	suggestions, _ := v.([]string)
	if len(suggestions) == 0 {
		return insight, nil
	}

	insight.Suggestions = suggestions
	insight.Source = SourceLLM
	return insight, nil
}

func (s *Service) generate(ctx context.Context, profile emotion.Profile) ([]string, error) {
	msg, err := s.generator.Invoke(ctx, map[string]any{
		"emotion":  string(profile.Label),
		"examples": strings.Join(profile.Suggestions, "\n"),
	})
	if err != nil {
		return nil, err
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return nil, nil
	}

	suggestions, err := parseSuggestions(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	return suggestions, nil
}

// parseSuggestions extracts the first JSON string array from the model output.
func parseSuggestions(content string) ([]string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json array")
	}

	var raw []string
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &raw); err != nil {
		return nil, err
	}

	out := make([]string, 0, maxSuggestions)
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no suggestions in output")
	}
	return out, nil
}

const insightSystemPrompt = "You are a supportive wellbeing coach. Given an emotion detected from someone's voice, suggest three short, concrete actions they could take right now. Reply with a JSON array of exactly three strings and nothing else."

const insightUserPrompt = "Detected emotion: {emotion}\n\nExamples of the tone we want:\n{examples}\n\nReturn the JSON array."

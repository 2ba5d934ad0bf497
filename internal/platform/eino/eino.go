package eino

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"contactuse/prompts"
)

// Config represents the configuration for the planner's LLM
type Config struct {
	Provider string `json:"provider"` // only "gemini" today
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

// Service turns an agent step into a model completion.
type Service struct {
	config       Config
	chatModel    model.BaseChatModel
	chatTemplate prompt.ChatTemplate

	// lazy services set the model up on first use and keep the outcome.
	lazy     bool
	initOnce sync.Once
	initErr  error
}

// NewService creates the provider-backed chat model and the agent step template.
func NewService(config Config) (*Service, error) {
	s := &Service{config: config, chatTemplate: prompts.AgentStep()}
	if err := s.initializeChatModel(); err != nil {
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	return s, nil
}

// NewLazyService defers provider setup to the first Plan call. A setup
// failure is returned by every Plan call rather than at construction, so the
// caller can keep serving and fail individual jobs.
func NewLazyService(config Config) *Service {
	return &Service{config: config, chatTemplate: prompts.AgentStep(), lazy: true}
}

// NewServiceWithModel wires a pre-built chat model, bypassing provider setup.
func NewServiceWithModel(config Config, chatModel model.BaseChatModel) *Service {
	return &Service{config: config, chatModel: chatModel, chatTemplate: prompts.AgentStep()}
}

func (s *Service) initializeChatModel() error {
	switch strings.ToLower(s.config.Provider) {
	case "gemini":
		return s.initializeGeminiModel()
	default:
		return fmt.Errorf("unsupported provider: %s. Supported: gemini", s.config.Provider)
	}
}

func (s *Service) initializeGeminiModel() error {
	if s.config.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	geminiModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  s.config.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini chat model: %w", err)
	}
	s.chatModel = geminiModel
	return nil
}

// Plan renders the agent step template with vars and returns the model's
// raw reply.
func (s *Service) Plan(ctx context.Context, vars map[string]any) (string, error) {
	if s.lazy {
		s.initOnce.Do(func() { s.initErr = s.initializeChatModel() })
		if s.initErr != nil {
			return "", fmt.Errorf("failed to initialize chat model: %w", s.initErr)
		}
	}
	if s.chatModel == nil {
		return "", fmt.Errorf("chat model not initialized")
	}
	messages, err := s.chatTemplate.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("failed to format chat template: %w", err)
	}
	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("LLM returned no message")
	}
	return resp.Content, nil
}


package ai

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/cadence/pkg/domain/ai"
)

// DefaultProviderName is used when neither config nor environment names a provider.
const DefaultProviderName = "groq"

func NewProvider(providerName string, modelName string) (ai.Provider, error) {
	switch providerName {
	case "groq", "":
		return NewOpenAIProvider(PresetGroq, modelName, os.Getenv(PresetGroq.APIKeyEnv)), nil
	case "openai":
		return NewOpenAIProvider(PresetOpenAI, modelName, os.Getenv(PresetOpenAI.APIKeyEnv)), nil
	case "ollama":
		return NewOpenAIProvider(PresetOllama, modelName, ""), nil
	case "mock":
		return &MockProvider{Model: modelName}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// GetDefaultProvider returns a provider based on environment variables or the given defaults.
func GetDefaultProvider(providerName, modelName string) (ai.Provider, error) {
	if envProvider := os.Getenv("CADENCE_AI_PROVIDER"); envProvider != "" {
		providerName = envProvider
	}
	if envModel := os.Getenv("CADENCE_AI_MODEL"); envModel != "" {
		modelName = envModel
	}
	return NewProvider(providerName, modelName)
}

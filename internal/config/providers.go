package config

// Preset describes a known OpenAI-compatible endpoint
type Preset struct {
	ID           string
	Name         string
	Description  string
	BaseURL      string
	SignupURL    string
	Models       []string
	DefaultModel string
}

var Presets = []Preset{
	{
		ID:           "github-models",
		Name:         "GitHub Models",
		Description:  "Free tier with a GitHub token",
		BaseURL:      "https://models.github.ai/inference",
		SignupURL:    "https://github.com/settings/tokens",
		Models:       []string{"openai/gpt-4.1", "openai/gpt-4.1-mini", "openai/gpt-4o"},
		DefaultModel: "openai/gpt-4.1",
	},
	{
		ID:           "openai",
		Name:         "OpenAI",
		Description:  "GPT-4 family",
		BaseURL:      "https://api.openai.com/v1",
		SignupURL:    "https://platform.openai.com/api-keys",
		Models:       []string{"gpt-4-turbo", "gpt-4o", "gpt-4o-mini"},
		DefaultModel: "gpt-4-turbo",
	},
	{
		ID:           "groq",
		Name:         "Groq",
		Description:  "Very fast, cheap",
		BaseURL:      "https://api.groq.com/openai/v1",
		SignupURL:    "https://console.groq.com/keys",
		Models:       []string{"llama-3.1-70b-versatile", "llama-3.1-8b-instant"},
		DefaultModel: "llama-3.1-70b-versatile",
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		Description:  "Access all models",
		BaseURL:      "https://openrouter.ai/api/v1",
		SignupURL:    "https://openrouter.ai/keys",
		Models:       []string{"openai/gpt-4o", "anthropic/claude-3.5-sonnet"},
		DefaultModel: "openai/gpt-4o",
	},
}

func GetPreset(id string) *Preset {
	for _, p := range Presets {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

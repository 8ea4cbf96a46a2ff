package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// IndexConfig locates the persisted vector index.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// PDFConfig selects the page text extractor.
type PDFConfig struct {
	Parser        string `yaml:"parser"`
	LicenseKeyEnv string `yaml:"license_key_env"`
}

// ChunkerConfig configures how pages are split before indexing.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// EmbedderConfig selects the embedding provider.
type EmbedderConfig struct {
	Type string `yaml:"type"`
}

// LLMConfig selects the answering model and its sampling parameters.
// Temperature and TopP are pointers so an explicit 0 survives defaulting.
type LLMConfig struct {
	Type        string   `yaml:"type"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float64 `yaml:"temperature"`
	TopP        *float64 `yaml:"top_p"`
	TopK        int      `yaml:"top_k"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// OpenAIConfig holds settings for any OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

type OllamaConfig struct {
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

type GeminiConfig struct {
	APIKeyEnv      string `yaml:"api_key_env"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
}

// BedrockConfig uses the default AWS credential chain.
type BedrockConfig struct {
	Region         string `yaml:"region"`
	EmbeddingModel string `yaml:"embedding_model"`
	ChatModel      string `yaml:"chat_model"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
}

type ProvidersConfig struct {
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Bedrock BedrockConfig `yaml:"bedrock"`
}

// LogConfig controls the log file. The terminal belongs to the TUI.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir   string          `yaml:"data_dir"`
	Index     IndexConfig     `yaml:"index"`
	PDF       PDFConfig       `yaml:"pdf"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Providers ProvidersConfig `yaml:"providers"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pdfchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/pdfchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Index.Path == "" {
		cfg.Index.Path = "faiss-index"
	}
	if cfg.PDF.Parser == "" {
		cfg.PDF.Parser = "ledongthuc"
	}
	if cfg.PDF.LicenseKeyEnv == "" {
		cfg.PDF.LicenseKeyEnv = "UNIDOC_LICENSE_API_KEY"
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "none"
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "bedrock"
	}
	if cfg.LLM.Type == "" {
		cfg.LLM.Type = "bedrock"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 512
	}
	if cfg.LLM.Temperature == nil {
		cfg.LLM.Temperature = float64Ptr(0.5)
	}
	if cfg.LLM.TopP == nil {
		cfg.LLM.TopP = float64Ptr(1)
	}
	if cfg.LLM.TopK == 0 {
		cfg.LLM.TopK = 250
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}

	o := &cfg.Providers.OpenAI
	if o.BaseURL == "" {
		o.BaseURL = "https://api.openai.com/v1"
	}
	if o.APIKeyEnv == "" {
		o.APIKeyEnv = "OPENAI_API_KEY"
	}
	if o.EmbeddingModel == "" {
		o.EmbeddingModel = "text-embedding-3-small"
	}
	if o.ChatModel == "" {
		o.ChatModel = "gpt-4o-mini"
	}
	ol := &cfg.Providers.Ollama
	if ol.BaseURL == "" {
		ol.BaseURL = "http://localhost:11434"
	}
	if ol.EmbeddingModel == "" {
		ol.EmbeddingModel = "nomic-embed-text"
	}
	if ol.ChatModel == "" {
		ol.ChatModel = "llama3.2"
	}
	g := &cfg.Providers.Gemini
	if g.APIKeyEnv == "" {
		g.APIKeyEnv = "GEMINI_API_KEY"
	}
	if g.EmbeddingModel == "" {
		g.EmbeddingModel = "text-embedding-004"
	}
	if g.ChatModel == "" {
		g.ChatModel = "gemini-1.5-flash"
	}
	b := &cfg.Providers.Bedrock
	if b.EmbeddingModel == "" {
		b.EmbeddingModel = "amazon.titan-embed-text-v1"
	}
	if b.ChatModel == "" {
		b.ChatModel = "anthropic.claude-v2:1"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.File == "" {
		cfg.Log.File = "pdfchat.log"
	}
}

func float64Ptr(v float64) *float64 { return &v }

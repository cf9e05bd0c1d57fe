package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

type AIConfig struct {
	GeminiAPIKey          string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model                 string `yaml:"model"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id" env:"GOOGLE_SHEET_ID"`
	SheetName     string `yaml:"sheet_name"`
}

type WorkflowConfig struct {
	MaxResults      int      `yaml:"max_results"`
	TopCount        int      `yaml:"top_count"`
	ExtractClip     bool     `yaml:"extract_clip"`
	UploadToYouTube bool     `yaml:"upload_to_youtube"`
	ProcessVideo    bool     `yaml:"process_video"`
	SearchQueries   []string `yaml:"search_queries"`
	PopularCreators []string `yaml:"popular_creators"`
	SkipProcessed   bool     `yaml:"skip_processed"`
	DataDir         string   `yaml:"data_dir"`
	WatermarkPath   string   `yaml:"watermark_path"`
}

type EmailConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

// DefaultPopularCreators are the channels that receive the popularity bonus
// when no explicit list is configured.
var DefaultPopularCreators = []string{
	"IShowSpeed",
	"Kai Cenat",
	"Flensha",
	"xQc",
	"PewDiePie",
	"MrBeast",
	"Dude Perfect",
	"KSI",
}

// DefaultSearchQueries returns the query list used when none is configured:
// one "<creator> stream" query per popular creator plus trending topics.
func DefaultSearchQueries(creators []string) []string {
	queries := make([]string, 0, len(creators)+6)
	for _, creator := range creators {
		queries = append(queries, creator+" stream")
	}
	return append(queries,
		"gaming highlights",
		"viral moments",
		"funny reactions",
		"irl stream",
		"reacting to",
		"challenge",
	)
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.AI.GeminiAPIKey == "" {
		c.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Sheets.SpreadsheetID == "" {
		c.Sheets.SpreadsheetID = os.Getenv("GOOGLE_SHEET_ID")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.RequestTimeoutSeconds == 0 {
		c.AI.RequestTimeoutSeconds = 30
	}
	if c.Sheets.SheetName == "" {
		c.Sheets.SheetName = "Trending Videos"
	}
	if c.Workflow.MaxResults == 0 {
		c.Workflow.MaxResults = 20
	}
	if c.Workflow.TopCount == 0 {
		c.Workflow.TopCount = 5
	}
	if len(c.Workflow.PopularCreators) == 0 {
		c.Workflow.PopularCreators = DefaultPopularCreators
	}
	if len(c.Workflow.SearchQueries) == 0 {
		c.Workflow.SearchQueries = DefaultSearchQueries(c.Workflow.PopularCreators)
	}
	if c.Workflow.DataDir == "" {
		c.Workflow.DataDir = "data"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 */6 * * *" // Every 6 hours
	}
}

// Validate checks that required settings are present and consistent.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY or youtube.api_key)")
	}
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Workflow.MaxResults < 1 {
		return fmt.Errorf("workflow.max_results must be at least 1, got %d", c.Workflow.MaxResults)
	}
	if c.Workflow.TopCount < 1 || c.Workflow.TopCount > c.Workflow.MaxResults {
		return fmt.Errorf("workflow.top_count must be between 1 and max_results, got %d", c.Workflow.TopCount)
	}
	needsOAuth := c.Workflow.UploadToYouTube || c.Sheets.SpreadsheetID != ""
	if needsOAuth && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
		return fmt.Errorf("YouTube OAuth client is required for uploads and sheet persistence (set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
	}
	if c.Email.Enabled {
		if c.Email.Username == "" {
			return fmt.Errorf("email username is required (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("email password is required (set EMAIL_PASSWORD or email.password)")
		}
	}
	return nil
}

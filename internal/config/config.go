package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nguyentantai21042004/speechnote/internal/models"
)

type Config struct {
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Diarization DiarizationConfig `yaml:"diarization"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	File        FileConfig        `yaml:"file"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Performance PerformanceConfig `yaml:"performance"`

	Credentials Credentials `yaml:"-"`
}

type TranscriberConfig struct {
	Backend         string        `yaml:"backend"` // openai or whisper
	Audio           AudioConfig   `yaml:"audio"`
	OpenAI          OpenAIConfig  `yaml:"openai"`
	Whisper         WhisperConfig `yaml:"whisper"`
	Retry           RetryConfig   `yaml:"retry"`
	AlignmentPolicy string        `yaml:"alignment_policy"` // drop or unattributed
	SummaryPrompt   string        `yaml:"summary_prompt"`
}

type AudioConfig struct {
	TargetSizeMB      float64 `yaml:"target_size_mb"`
	SplitLengthMin    float64 `yaml:"split_length_min"`
	MaxParallelChunks int     `yaml:"max_parallel_chunks"`
	ChunkFormat       string  `yaml:"chunk_format"`
}

type OpenAIConfig struct {
	TranscriptModel string `yaml:"transcript_model"`
	SummaryModel    string `yaml:"summary_model"`
	BaseURL         string `yaml:"base_url"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
}

type DiarizationConfig struct {
	Python      string `yaml:"python"`
	Script      string `yaml:"script"`
	NumSpeakers int    `yaml:"num_speakers"`
	Device      string `yaml:"device"`
}

type SummarizerConfig struct {
	Backend string       `yaml:"backend"` // openai, gemini or ollama
	Gemini  GeminiConfig `yaml:"gemini"`
	Ollama  OllamaConfig `yaml:"ollama"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type PathsConfig struct {
	SaveDir string `yaml:"save_dir"`
	Inbox   string `yaml:"inbox"`
}

type FileConfig struct {
	AllowedAudioExtensions []string `yaml:"allowed_audio_extensions"`
	BinaryExtensions       []string `yaml:"binary_extensions"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	Textfile string `yaml:"textfile"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Credentials are read from the environment, never from the YAML file
type Credentials struct {
	OpenAIAPIKey     string
	HuggingFaceToken string
	GeminiAPIKeys    []string
}

const defaultSummaryPrompt = "Summarize the following counseling conversation. " +
	"List the main topics, the concerns raised by each speaker, and any agreed next steps."

// Validate fills defaults and checks that everything the selected backends
// need is present. Missing requirements wrap models.ErrConfiguration.
func (c *Config) Validate() error {
	c.applyDefaults()

	switch c.Transcriber.Backend {
	case "openai":
		if c.Credentials.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for the openai transcriber", models.ErrConfiguration)
		}
	case "whisper":
		if c.Transcriber.Whisper.ModelPath == "" {
			return fmt.Errorf("%w: transcriber.whisper.model_path is required", models.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown transcriber.backend %q", models.ErrConfiguration, c.Transcriber.Backend)
	}

	switch c.Summarizer.Backend {
	case "openai":
		if c.Credentials.OpenAIAPIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for the openai summarizer", models.ErrConfiguration)
		}
	case "gemini":
		if len(c.Credentials.GeminiAPIKeys) == 0 {
			return fmt.Errorf("%w: GEMINI_API_KEYS is required for the gemini summarizer", models.ErrConfiguration)
		}
	case "ollama":
	default:
		return fmt.Errorf("%w: unknown summarizer.backend %q", models.ErrConfiguration, c.Summarizer.Backend)
	}

	if c.Credentials.HuggingFaceToken == "" {
		return fmt.Errorf("%w: HUGGINGFACE_AUTH_TOKEN is required for diarization", models.ErrConfiguration)
	}
	if c.Diarization.Script == "" {
		return fmt.Errorf("%w: diarization.script is required", models.ErrConfiguration)
	}

	if c.Transcriber.Audio.TargetSizeMB <= 0 {
		return fmt.Errorf("%w: transcriber.audio.target_size_mb must be positive", models.ErrConfiguration)
	}
	if c.Transcriber.Audio.SplitLengthMin <= 0 {
		return fmt.Errorf("%w: transcriber.audio.split_length_min must be positive", models.ErrConfiguration)
	}
	switch c.Transcriber.AlignmentPolicy {
	case "drop", "unattributed":
	default:
		return fmt.Errorf("%w: unknown transcriber.alignment_policy %q", models.ErrConfiguration, c.Transcriber.AlignmentPolicy)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Transcriber.Backend == "" {
		c.Transcriber.Backend = "openai"
	}
	if c.Transcriber.Audio.TargetSizeMB == 0 {
		c.Transcriber.Audio.TargetSizeMB = 25
	}
	if c.Transcriber.Audio.SplitLengthMin == 0 {
		c.Transcriber.Audio.SplitLengthMin = 10
	}
	if c.Transcriber.Audio.MaxParallelChunks <= 0 {
		c.Transcriber.Audio.MaxParallelChunks = 1
	}
	if c.Transcriber.Audio.ChunkFormat == "" {
		c.Transcriber.Audio.ChunkFormat = "mp3"
	}
	if c.Transcriber.OpenAI.TranscriptModel == "" {
		c.Transcriber.OpenAI.TranscriptModel = "whisper-1"
	}
	if c.Transcriber.OpenAI.SummaryModel == "" {
		c.Transcriber.OpenAI.SummaryModel = "gpt-4o-mini"
	}
	if c.Transcriber.Whisper.BinaryPath == "" {
		c.Transcriber.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Transcriber.Whisper.Threads == 0 {
		c.Transcriber.Whisper.Threads = 8
	}
	if c.Transcriber.Retry.MaxAttempts <= 0 {
		c.Transcriber.Retry.MaxAttempts = 1
	}
	if c.Transcriber.Retry.InitialBackoff == 0 {
		c.Transcriber.Retry.InitialBackoff = 2 * time.Second
	}
	if c.Transcriber.AlignmentPolicy == "" {
		c.Transcriber.AlignmentPolicy = "drop"
	}
	if strings.TrimSpace(c.Transcriber.SummaryPrompt) == "" {
		c.Transcriber.SummaryPrompt = defaultSummaryPrompt
	}
	if c.Diarization.Python == "" {
		c.Diarization.Python = "python3"
	}
	if c.Diarization.NumSpeakers == 0 {
		c.Diarization.NumSpeakers = 2
	}
	if c.Summarizer.Backend == "" {
		c.Summarizer.Backend = "openai"
	}
	if c.Summarizer.Gemini.Model == "" {
		c.Summarizer.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summarizer.Ollama.Host == "" {
		c.Summarizer.Ollama.Host = "http://localhost:11434"
	}
	if c.Summarizer.Ollama.Model == "" {
		c.Summarizer.Ollama.Model = "llama3.1"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.Paths.SaveDir == "" {
		c.Paths.SaveDir = "upload_people"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if len(c.File.AllowedAudioExtensions) == 0 {
		c.File.AllowedAudioExtensions = []string{"mp3", "wav", "m4a", "ogg", "flac", "webm"}
	}
	if len(c.File.BinaryExtensions) == 0 {
		c.File.BinaryExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm", ".docx"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 50
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 30
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
}

// SplitSeconds is the configured chunk duration in seconds
func (c *Config) SplitSeconds() float64 {
	return c.Transcriber.Audio.SplitLengthMin * 60
}

func loadCredentials() Credentials {
	creds := Credentials{
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		HuggingFaceToken: strings.TrimSpace(os.Getenv("HUGGINGFACE_AUTH_TOKEN")),
	}
	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			creds.GeminiAPIKeys = append(creds.GeminiAPIKeys, k)
		}
	}
	return creds
}

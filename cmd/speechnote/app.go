package main

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speechnote/internal/align"
	"github.com/nguyentantai21042004/speechnote/internal/asr"
	"github.com/nguyentantai21042004/speechnote/internal/chunker"
	"github.com/nguyentantai21042004/speechnote/internal/config"
	"github.com/nguyentantai21042004/speechnote/internal/diarize"
	"github.com/nguyentantai21042004/speechnote/internal/logger"
	"github.com/nguyentantai21042004/speechnote/internal/media"
	"github.com/nguyentantai21042004/speechnote/internal/metrics"
	"github.com/nguyentantai21042004/speechnote/internal/processor"
	"github.com/nguyentantai21042004/speechnote/internal/storage"
	"github.com/nguyentantai21042004/speechnote/internal/summarizer"
	"github.com/nguyentantai21042004/speechnote/pkg/executor"
)

// app holds the wired components shared by the subcommands
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Metrics
	files   storage.FileManager
	proc    processor.Processor
}

// newLocalApp wires only what note-level commands need; no credentials
// are required
func newLocalApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLocal(path)
	if err != nil {
		return nil, err
	}
	return newBaseApp(cfg)
}

// newApp wires the full pipeline. watch carries the inbox settings and is
// zero for one-shot commands.
func newApp(cmd *cobra.Command, watch processor.Options) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	a, err := newBaseApp(cfg)
	if err != nil {
		return nil, err
	}

	exec := executor.New()
	tool := media.New(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.FFprobePath, exec, a.log)

	backend, err := newBackend(cfg, exec, tool, a.log)
	if err != nil {
		return nil, err
	}
	backend = asr.WithRetry(backend, cfg.Transcriber.Retry.MaxAttempts, cfg.Transcriber.Retry.InitialBackoff, a.log)

	diarizer, err := diarize.New(diarize.Options{
		Python:           cfg.Diarization.Python,
		Script:           cfg.Diarization.Script,
		Device:           cfg.Diarization.Device,
		HuggingFaceToken: cfg.Credentials.HuggingFaceToken,
	}, exec, tool, a.log)
	if err != nil {
		return nil, err
	}

	gen, err := newGenerator(cfg, a.log)
	if err != nil {
		return nil, err
	}

	watch.NumSpeakers = cfg.Diarization.NumSpeakers
	watch.Policy = align.Policy(cfg.Transcriber.AlignmentPolicy)

	a.proc = processor.New(watch, processor.Dependencies{
		Chunker: chunker.New(chunker.Options{
			ThresholdMB:  cfg.Transcriber.Audio.TargetSizeMB,
			SplitSeconds: cfg.SplitSeconds(),
			Format:       cfg.Transcriber.Audio.ChunkFormat,
		}, tool, a.log),
		Acquirer:   asr.NewAcquirer(backend, asr.Options{MaxParallel: cfg.Transcriber.Audio.MaxParallelChunks}, a.log, a.metrics),
		Diarizer:   diarizer,
		Summarizer: summarizer.New(gen, cfg.Transcriber.SummaryPrompt, a.log),
		Files:      a.files,
		Metrics:    a.metrics,
	}, a.log)

	return a, nil
}

func newBaseApp(cfg *config.Config) (*app, error) {
	log := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	files, err := storage.New(cfg.Paths.SaveDir, cfg.File.BinaryExtensions, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		files:   files,
	}, nil
}

func newBackend(cfg *config.Config, exec executor.Executor, tool media.Tool, log logger.Logger) (asr.Backend, error) {
	switch cfg.Transcriber.Backend {
	case "whisper":
		w := cfg.Transcriber.Whisper
		return asr.NewWhisper(asr.WhisperOptions{
			BinaryPath: w.BinaryPath,
			ModelPath:  w.ModelPath,
			Language:   w.Language,
			Prompt:     w.Prompt,
			Threads:    w.Threads,
		}, exec, tool, log)
	case "openai":
		return asr.NewOpenAI(cfg.Credentials.OpenAIAPIKey, cfg.Transcriber.OpenAI.TranscriptModel, log, openAIOptions(cfg)...)
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Transcriber.Backend)
	}
}

func newGenerator(cfg *config.Config, log logger.Logger) (summarizer.Generator, error) {
	switch cfg.Summarizer.Backend {
	case "gemini":
		return summarizer.NewGemini(cfg.Credentials.GeminiAPIKeys, cfg.Summarizer.Gemini.Model, "", log)
	case "ollama":
		return summarizer.NewOllama(cfg.Summarizer.Ollama.Host, cfg.Summarizer.Ollama.Model, nil)
	case "openai":
		return summarizer.NewOpenAI(cfg.Credentials.OpenAIAPIKey, cfg.Transcriber.OpenAI.SummaryModel, openAIOptions(cfg)...)
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Summarizer.Backend)
	}
}

func openAIOptions(cfg *config.Config) []option.RequestOption {
	if cfg.Transcriber.OpenAI.BaseURL == "" {
		return nil
	}
	return []option.RequestOption{option.WithBaseURL(cfg.Transcriber.OpenAI.BaseURL)}
}

// finish writes the metrics textfile and flushes buffered log entries
func (a *app) finish(ctx context.Context) {
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		a.log.Warn(ctx, "Failed to write metrics textfile: %v", err)
	}
	logger.Sync(a.log)
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}

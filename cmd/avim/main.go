// Command avim is a modal terminal editor for audio transcripts.
//
// Usage:
//
//	avim [--no-cache] [--debug] [--chunk seconds] <audio file | project.avim>
//	avim mcp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ashutoshmjain/avim/internal/app"
	"github.com/ashutoshmjain/avim/internal/audio"
	"github.com/ashutoshmjain/avim/internal/cache"
	"github.com/ashutoshmjain/avim/internal/clipboard"
	"github.com/ashutoshmjain/avim/internal/config"
	"github.com/ashutoshmjain/avim/internal/editor"
	"github.com/ashutoshmjain/avim/internal/ingest"
	"github.com/ashutoshmjain/avim/internal/logging"
	"github.com/ashutoshmjain/avim/internal/mcpserver"
	"github.com/ashutoshmjain/avim/internal/project"
	"github.com/ashutoshmjain/avim/internal/transcribe"
	"github.com/sirupsen/logrus"

	tea "github.com/charmbracelet/bubbletea"
)

func fail(msg string, a ...any) {
	fmt.Fprintf(os.Stderr, "avim: "+msg+"\n", a...)
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		if err := runMCP(os.Args[2:]); err != nil {
			fail("%v", err)
			os.Exit(1)
		}
		return
	}

	var (
		noCache bool
		debug   bool
		chunk   float64
	)
	flag.BoolVar(&noCache, "no-cache", false, "Transcribe even if a cached transcription exists")
	flag.BoolVar(&debug, "debug", false, "Log at debug level to the cache directory and show the debug panel")
	flag.Float64Var(&chunk, "chunk", 0, "Transcription window in seconds (default AVIM_CHUNK_SECONDS or 300)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: avim [flags] <audio file | project%s>\n       avim mcp [--debug]\n\nflags:\n", project.Extension)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if chunk < 0 {
		fail("--chunk must be positive, got %v", chunk)
		os.Exit(2)
	}

	if err := run(flag.Arg(0), noCache, debug, chunk); err != nil {
		fail("%v", err)
		os.Exit(1)
	}
}

func run(input string, noCache, debug bool, chunk float64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if chunk > 0 {
		cfg.ChunkSeconds = chunk
	}

	logger, err := logging.New(debug, cfg.DebugLogPath())
	if err != nil {
		return err
	}
	defer logger.Close()
	log := logger.Component("main")
	log.WithFields(logrus.Fields{
		"input":   input,
		"backend": cfg.Backend,
		"chunk":   cfg.ChunkSeconds,
		"noCache": noCache,
	}).Info("starting")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	sox := &audio.Sox{SoxBin: cfg.SoxBin, SoxiBin: cfg.SoxiBin, Log: logger.Component("audio")}

	var (
		events      <-chan tea.Msg
		audioPath   = input
		projectPath string
	)
	if strings.HasSuffix(input, project.Extension) {
		p, err := project.Load(input)
		if err != nil {
			return fmt.Errorf("open project %s: %w", input, err)
		}
		duration, err := sox.ProbeDuration(ctx, p.AudioPath)
		if err != nil {
			log.WithError(err).Warn("probe duration for project audio")
			duration = 0
		}
		audioPath, projectPath = p.AudioPath, input
		events = app.Loaded(p.Clips, duration)
	} else {
		// Credentials are checked on the first chunk, never on a cache hit.
		tx := &ingest.LazyTranscriber{New: func(ctx context.Context) (ingest.Transcriber, error) {
			return newTranscriber(ctx, cfg, logger)
		}}
		pipeline := &ingest.Pipeline{
			Prober:       sox,
			Extractor:    sox,
			Transcriber:  tx,
			UseCache:     !noCache,
			ChunkSeconds: cfg.ChunkSeconds,
			Log:          logger.Component("ingest"),
		}
		store, err := cache.Open(cache.DefaultDBPath(cfg.CacheDir))
		if err != nil {
			log.WithError(err).Warn("cache unavailable, continuing without it")
		} else {
			defer store.Close()
			pipeline.Cache = store
		}
		events = app.StartIngest(ctx, pipeline, input)
	}

	session := editor.New(editor.Options{
		AudioPath:   audioPath,
		ProjectPath: projectPath,
		Audio:       sox,
		Clipboard:   clipboard.New(),
		Log:         logger.Component("editor"),
	})
	defer session.Close()

	var opts []app.Option
	if debug {
		opts = append(opts, app.WithDebug(logger.Ring))
	}
	p := tea.NewProgram(app.New(session, events, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	log.Info("exiting")
	return nil
}

// newTranscriber builds the transcription client for the configured backend.
func newTranscriber(ctx context.Context, cfg config.Config, logger *logging.Logger) (ingest.Transcriber, error) {
	if cfg.APIKey() == "" {
		return nil, fmt.Errorf("no API key for backend %q (set %s)", cfg.Backend, keyVar(cfg.Backend))
	}
	switch cfg.Backend {
	case config.BackendOpenAI:
		return transcribe.NewOpenAI(transcribe.OpenAIOptions{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Log:    logger.Component("openai"),
		})
	default:
		return transcribe.NewGemini(ctx, transcribe.GeminiOptions{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
			Log:    logger.Component("gemini"),
		})
	}
}

func keyVar(backend string) string {
	if backend == config.BackendOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "Log tool calls at debug level to the cache directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(*debug, cfg.DebugLogPath())
	if err != nil {
		return err
	}
	defer logger.Close()

	return mcpserver.ServeStdio(mcpserver.New(logger.Component("mcp")))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	orchestration "github.com/koscakluka/ema-voice/core"
	"github.com/koscakluka/ema-voice/core/audio"
	"github.com/koscakluka/ema-voice/core/events"
	"github.com/koscakluka/ema-voice/core/llms"
	"github.com/koscakluka/ema-voice/core/llms/groq"
	"github.com/koscakluka/ema-voice/core/llms/openai"
	"github.com/koscakluka/ema-voice/core/speechrecognition"
	"github.com/koscakluka/ema-voice/core/speechrecognition/deepgram"
	"github.com/koscakluka/ema-voice/internal/app"
	"github.com/koscakluka/ema-voice/internal/config"
	"golang.org/x/sync/errgroup"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ema-voice failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.DebugLogPath != "" {
		logFile, err := tea.LogToFile(cfg.DebugLogPath, "ema")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer logFile.Close()
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	device, deviceErr := openAudioDevice(cfg.AudioBackend)
	if device != nil {
		defer device.Close()
	}

	library := audio.NewLibrary()
	synthesis, err := newSynthesisClient(cfg, library, device)
	if err != nil {
		return err
	}

	var program atomic.Pointer[tea.Program]
	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithBaseContext(signalCtx),
		orchestration.WithCompletionClient(newCompletionClient(cfg)),
		orchestration.WithSynthesisClient(synthesis),
		orchestration.WithRecognizer(newRecognizer(signalCtx, cfg, recognitionSource(device, deviceErr))),
		orchestration.WithAudioLibrary(library),
		withTurnPolicy(cfg),
		orchestration.WithEventCallback(func(event events.Event) {
			if p := program.Load(); p != nil {
				p.Send(app.EventMsg{Event: event})
			}
		}),
	)

	uiCtx, cancelUI := context.WithCancel(signalCtx)
	defer cancelUI()

	p := tea.NewProgram(app.New(uiCtx, orchestrator), tea.WithAltScreen(), tea.WithContext(uiCtx))
	program.Store(p)

	group, groupCtx := errgroup.WithContext(uiCtx)
	group.Go(func() error {
		defer cancelUI()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal ui failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		program.Store(nil)
		orchestrator.Close()
		return nil
	})

	return group.Wait()
}

func withTurnPolicy(cfg config.Config) orchestration.OrchestratorOption {
	if cfg.ConcurrentTurns {
		return orchestration.WithConcurrentTurns()
	}
	return func(*orchestration.Orchestrator) {}
}

func newCompletionClient(cfg config.Config) orchestration.CompletionClient {
	completionOptions := []llms.CompletionOption{llms.WithModel(cfg.CompletionModel)}

	switch cfg.CompletionProvider {
	case config.CompletionOpenAI:
		return openai.NewClient(
			openai.WithCompletionOptions(completionOptions...),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
		)
	default:
		return groq.NewClient(groq.WithCompletionOptions(completionOptions...))
	}
}

// newRecognizer wraps live transcription over source. Without a source voice
// input is unsupported for the session.
func newRecognizer(ctx context.Context, cfg config.Config, source deepgram.AudioSource) *speechrecognition.Recognizer {
	if source == nil {
		return speechrecognition.NewRecognizer(nil)
	}
	return speechrecognition.NewRecognizer(
		newRecognitionCapability(cfg, source),
		speechrecognition.WithProbeContext(ctx),
	)
}

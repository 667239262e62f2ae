// deepscope scopes a research request: it either answers with a clarifying
// question or prints the research brief that would seed the research phase.
//
// Usage:
//
//	deepscope -q "Compare the best espresso machines under $500"
//	deepscope -messages transcript.json
//	DEEPSCOPE_PROVIDER=fake deepscope "dry run without an API key"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"deepscope/internal/config"
	"deepscope/internal/llm"
	"deepscope/internal/scope"
)

func main() {
	var (
		question   = flag.String("q", "", "research request; positional args work too")
		transcript = flag.String("messages", "", "path to a JSON transcript ([{role, content}, ...]) to scope instead of -q")
		provider   = flag.String("provider", "", "model provider override: openai, gemini, or fake")
		model      = flag.String("model", "", "model id override")
		plain      = flag.Bool("plain", false, "print raw markdown without terminal rendering")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "deepscope:", err)
		os.Exit(1)
	}
	if *provider != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(*provider))
	}
	if *model != "" {
		cfg.Model = *model
	}

	input, err := gatherInput(*question, *transcript, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "deepscope:", err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Debug)
	defer func() { _ = logger.Sync() }()

	if cfg.Provider != llm.ProviderFake && cfg.APIKey == "" {
		logger.Fatal("no API key configured", zap.String("provider", cfg.Provider))
	}

	ctx := context.Background()
	cli, err := llm.New(ctx, cfg.LLM(), logger)
	if err != nil {
		logger.Fatal("model client construction failed", zap.Error(err))
	}
	defer func() { _ = cli.Close() }()

	wf := scope.New(cli, scope.WithLogger(logger))
	res, err := wf.Run(ctx, input)
	if err != nil {
		logger.Fatal("scoping failed", zap.Error(err))
	}

	switch res.Outcome {
	case scope.OutcomeClarificationNeeded:
		fmt.Println(render(res.Question, *plain))
	case scope.OutcomeBriefWritten:
		fmt.Println(render(res.State.ResearchBrief, *plain))
	}
}

// gatherInput builds the conversation to scope: a transcript file wins, then
// the -q flag, then positional arguments joined into one request.
func gatherInput(question, transcriptPath string, args []string) ([]scope.Message, error) {
	if transcriptPath != "" {
		b, err := os.ReadFile(transcriptPath)
		if err != nil {
			return nil, err
		}
		var msgs []scope.Message
		if err := json.Unmarshal(b, &msgs); err != nil {
			return nil, fmt.Errorf("parse %s: %w", transcriptPath, err)
		}
		if len(msgs) == 0 {
			return nil, fmt.Errorf("%s holds no messages", transcriptPath)
		}
		return msgs, nil
	}
	text := strings.TrimSpace(question)
	if text == "" {
		text = strings.TrimSpace(strings.Join(args, " "))
	}
	if text == "" {
		return nil, fmt.Errorf("nothing to scope; pass -q, a positional request, or -messages")
	}
	return []scope.Message{scope.Human(text)}, nil
}

func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	// Keep stdout clean for the workflow output.
	cfg.OutputPaths = []string{"stderr"}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func render(md string, plain bool) string {
	if plain {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

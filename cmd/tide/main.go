// Command tide runs the Tide menopause assistant as an interactive terminal
// chat. Conversations are checkpointed, so a thread can be resumed across
// restarts with -thread.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/agent"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/config"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/delivery"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/llm"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/internal/retrieval"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog"
	"github.com/KarolAz22/Chatbot-Tide-Menopausa-Digital/pkg/dialog/checkpoint"
)

func main() {
	configPath := flag.String("config", "", "path to config file (yaml)")
	threadID := flag.String("thread", "", "thread ID to resume (default: new thread)")
	flag.Parse()

	if err := run(*configPath, *threadID); err != nil {
		fmt.Fprintln(os.Stderr, "tide:", err)
		os.Exit(1)
	}
}

func run(configPath, threadID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	client, err := llm.NewOpenAIClient(cfg.OpenAI.APIKey, openAIOptions(cfg.OpenAI)...)
	if err != nil {
		return err
	}

	searcher, err := newSearcher(cfg.Qdrant, client)
	if err != nil {
		return err
	}

	var sender delivery.Sender
	if cfg.MailEnabled() {
		sender, err = delivery.NewSMTPSender(delivery.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Password: cfg.SMTP.Password,
		})
		if err != nil {
			return err
		}
	} else {
		logger.Warn("smtp not configured, guide delivery disabled")
	}

	store, err := newStore(cfg.Checkpoint)
	if err != nil {
		return err
	}
	defer store.Close()

	a, err := agent.New(client, searcher, sender, store,
		agent.WithModel(cfg.OpenAI.Model),
		agent.WithMaxReformulations(cfg.Agent.MaxReformulations),
		agent.WithAgentLogger(logger),
	)
	if err != nil {
		return err
	}

	if threadID == "" {
		threadID = uuid.New().String()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return repl(ctx, a, threadID)
}

func newLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openAIOptions(cfg config.OpenAI) []llm.OpenAIOption {
	opts := []llm.OpenAIOption{llm.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(cfg.APIKey, cfg.BaseURL))
	}
	return opts
}

func newSearcher(cfg config.Qdrant, client *llm.OpenAIClient) (retrieval.Searcher, error) {
	var qopts []retrieval.QdrantOption
	if cfg.APIKey != "" {
		qopts = append(qopts, retrieval.WithAPIKey(cfg.APIKey))
	}

	base, err := retrieval.NewQdrantSearcher(cfg.URL, cfg.Collection, client, qopts...)
	if err != nil {
		return nil, err
	}

	if cfg.QueryVariants > 0 {
		return retrieval.NewMultiQuerySearcher(base, client, cfg.QueryVariants), nil
	}
	return base, nil
}

func newStore(cfg config.Checkpoint) (checkpoint.Store, error) {
	if cfg.Path == "" {
		return checkpoint.NewMemoryStore(), nil
	}
	return checkpoint.NewSQLiteStore(cfg.Path)
}

// repl drives the conversation loop: free-text turns go through Send, and a
// suspended thread collects intake answers field by field before resuming.
func repl(ctx context.Context, a *agent.Agent, threadID string) error {
	fmt.Printf("Tide 🌸 (thread %s) — digite sua mensagem, ou 'sair' para encerrar.\n\n", threadID)

	in := bufio.NewScanner(os.Stdin)
	in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		waiting, prompt, err := a.Waiting(threadID)
		if err != nil {
			return err
		}

		var turn agent.Turn
		if waiting {
			turn, err = answerPrompt(ctx, a, threadID, prompt, in)
		} else {
			fmt.Print("Você: ")
			line, ok := readLine(in)
			if !ok || strings.EqualFold(line, "sair") {
				fmt.Println("Até logo! 🌸")
				return nil
			}
			if line == "" {
				continue
			}
			turn, err = a.Send(ctx, threadID, line)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if turn.Waiting {
			continue
		}
		fmt.Printf("\nTide: %s\n\n", turn.Reply)
	}
}

// answerPrompt collects the input a pending intake prompt expects and
// resumes the thread with it.
func answerPrompt(ctx context.Context, a *agent.Agent, threadID, prompt string, in *bufio.Scanner) (agent.Turn, error) {
	fmt.Printf("\nTide: %s\n\n", prompt)

	input := dialog.Input{}
	switch {
	case agent.IsConfirmationPrompt(prompt):
		fmt.Print("Confirma? (sim/não): ")
		line, ok := readLine(in)
		if !ok {
			return agent.Turn{}, ctx.Err()
		}
		input["confirmation"] = isAffirmative(line)

	default:
		for _, field := range agent.FieldsForPrompt(prompt) {
			fmt.Printf("%s: ", field.Label)
			line, ok := readLine(in)
			if !ok {
				return agent.Turn{}, ctx.Err()
			}
			if line != "" {
				input[field.Key] = line
			}
		}
	}

	return a.Resume(ctx, threadID, input)
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

func isAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sim", "s", "yes", "y", "claro", "confirmo":
		return true
	}
	return false
}

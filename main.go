package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/deskagent/bootstrap"
	"github.com/va6996/deskagent/config"
	logcontext "github.com/va6996/deskagent/context"
	"github.com/va6996/deskagent/log"
)

const systemPrompt = `You are a desk assistant. Use the available tools for weather, local time,
date arithmetic, reminders and U.S. Treasury prices. Never guess a price or a
date that a tool can compute. Prices are per 100 face value.`

func main() {
	// Initialize logging
	log.Init()

	maxTurns := flag.Int("max-turns", 10, "maximum tool-calling turns")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 0. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, "Failed to load config: %v", err)
	}

	// 1. Init App Components using Bootstrap
	app, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		query, err = readQuery()
		if err != nil {
			log.Fatalf(ctx, "Failed to read query: %v", err)
		}
	}
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: deskagent [-max-turns N] <question>")
		os.Exit(2)
	}

	ctx = logcontext.WithRequestID(ctx, logcontext.NewRequestID())
	answer, err := ask(ctx, app, query, *maxTurns)
	if err != nil {
		log.Fatalf(ctx, "Request failed: %v", err)
	}
	fmt.Println(answer)
}

func readQuery() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return "", err
	}
	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String()), scanner.Err()
}

// ask hands the query and every registered tool to the model; genkit runs the
// tool-calling loop.
func ask(ctx context.Context, app *bootstrap.App, query string, maxTurns int) (string, error) {
	log.Infof(ctx, "Received request: %s", query)

	var toolRefs []ai.ToolRef
	for _, tool := range app.Registry.GetTools() {
		toolRefs = append(toolRefs, tool)
	}

	system := fmt.Sprintf("Today is %s.\n%s", time.Now().Format("2006-01-02 (Monday)"), systemPrompt)
	response, err := genkit.Generate(ctx,
		app.Genkit,
		ai.WithModel(app.Model),
		ai.WithSystem(system),
		ai.WithPrompt(query),
		ai.WithTools(toolRefs...),
		ai.WithMaxTurns(maxTurns),
	)
	if err != nil {
		return "", fmt.Errorf("generate failed: %w", err)
	}
	log.Debugf(ctx, "Finish reason: %v", response.FinishReason)
	return response.Text(), nil
}

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skiff-ai/skiff"
	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

func (a *App) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		Long: `Send a chat completion request.

Examples:
  skiff chat --model gpt-4o --prompt "Hello"
  skiff chat --prompt "Hello" --stream
  skiff chat --prompt "Hello" --json`,
		RunE: a.runChat,
	}

	cmd.Flags().StringVar(&a.chatPrompt, "prompt", "", "User message (required)")
	cmd.Flags().StringVar(&a.chatSystem, "system", "", "System message")
	cmd.Flags().Float64Var(&a.chatTemperature, "temperature", 0, "Temperature (0 = use default)")
	cmd.Flags().IntVar(&a.chatMaxTokens, "max-tokens", 0, "Max tokens (0 = use default)")
	cmd.Flags().BoolVar(&a.chatStream, "stream", false, "Enable streaming output")
	cmd.Flags().IntVar(&a.chatRetries, "retries", 1, "Total attempts for retryable failures")

	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func (a *App) runChat(cmd *cobra.Command, args []string) error {
	if a.model == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	req := &skiff.ChatRequest{
		Model:    a.model,
		Messages: a.chatMessages(),
	}
	if a.chatTemperature > 0 {
		req.Temperature = &a.chatTemperature
	}
	if a.chatMaxTokens > 0 {
		req.MaxTokens = a.chatMaxTokens
	}

	ctx := cmd.Context()

	if a.chatStream {
		return a.runStreamingChat(ctx, client, req)
	}
	return a.runBufferedChat(ctx, client, req)
}

// chatMessages assembles the request messages. The system message, when
// given, precedes the user message.
func (a *App) chatMessages() []skiff.Message {
	var msgs []skiff.Message
	if a.chatSystem != "" {
		msgs = append(msgs, skiff.Message{Role: skiff.RoleSystem, Content: a.chatSystem})
	}
	msgs = append(msgs, skiff.Message{Role: skiff.RoleUser, Content: a.chatPrompt})
	return msgs
}

func (a *App) runBufferedChat(ctx context.Context, client *skiff.Client, req *skiff.ChatRequest) error {
	var policy core.RetryPolicy
	if a.chatRetries > 1 {
		policy = core.NewRetryPolicy(core.RetryConfig{MaxAttempts: a.chatRetries, Exponential: true})
	}

	resp, err := core.Retry(ctx, policy, func(ctx context.Context) (*skiff.ChatCompletion, error) {
		return client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(chatResult(resp))
	}

	// Text output
	fmt.Fprintf(a.stdout, "> %s\n", a.chatPrompt)
	fmt.Fprintln(a.stdout, resp.Text())

	if a.verbose {
		a.printUsage(&resp.Usage)
	}
	return nil
}

func (a *App) runStreamingChat(ctx context.Context, client *skiff.Client, req *skiff.ChatRequest) error {
	stream, err := client.StreamChatCompletion(ctx, req)
	if err != nil {
		return a.handleRequestError(err)
	}

	if a.jsonOutput {
		// Accumulate for JSON output
		result, err := collectChat(ctx, stream)
		if err != nil {
			return a.handleRequestError(err)
		}
		return a.outputJSON(result)
	}

	// Stream text output
	fmt.Fprintf(a.stdout, "> %s\n", a.chatPrompt)

	var usage *skiff.Usage
	for chunk := range stream.Ch {
		fmt.Fprint(a.stdout, chunk.Text())
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}

	// Print final newline
	fmt.Fprintln(a.stdout)

	if err := <-stream.Err; err != nil {
		return a.handleRequestError(err)
	}

	// Log usage if verbose
	if a.verbose && usage != nil {
		a.printUsage(usage)
	}

	return nil
}

// collectChat drains a stream into a single buffered-style result.
func collectChat(ctx context.Context, stream *transport.Stream[skiff.ChatCompletionChunk]) (map[string]any, error) {
	chunks, err := transport.Collect(ctx, stream)
	if err != nil {
		return nil, err
	}

	var (
		id, model string
		text      strings.Builder
		usage     skiff.Usage
	)
	for _, chunk := range chunks {
		if chunk.ID != "" {
			id = chunk.ID
		}
		if chunk.Model != "" {
			model = chunk.Model
		}
		text.WriteString(chunk.Text())
		if chunk.Usage != nil {
			usage = *chunk.Usage
		}
	}

	return map[string]any{
		"id":     id,
		"model":  model,
		"output": text.String(),
		"usage": map[string]int{
			"prompt_tokens":     usage.PromptTokens,
			"completion_tokens": usage.CompletionTokens,
			"total_tokens":      usage.TotalTokens,
		},
	}, nil
}

func chatResult(resp *skiff.ChatCompletion) map[string]any {
	return map[string]any{
		"id":     resp.ID,
		"model":  resp.Model,
		"output": resp.Text(),
		"usage": map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}
}

func (a *App) printUsage(u *skiff.Usage) {
	fmt.Fprintf(a.stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
		u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// handleRequestError reports a failed API call and wraps it with the
// matching exit code.
func (a *App) handleRequestError(err error) error {
	var apiErr *core.Error
	if errors.As(err, &apiErr) {
		if a.jsonOutput {
			a.outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(a.stderr, "Error: %v\n", apiErr)
		}
		return exitWithCode(exitCodeFor(apiErr), err)
	}

	// Generic error
	if a.jsonOutput {
		a.outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitAPI, err)
}

// exitCodeFor maps classified errors onto process exit codes.
func exitCodeFor(err *core.Error) int {
	switch err.Kind {
	case core.KindInvalidResponse:
		return ExitNetwork
	case core.KindEncode, core.KindInvalidRequestTarget, core.KindInvalidBinaryPayload:
		return ExitValidation
	default:
		return ExitAPI
	}
}

func (a *App) outputJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) outputErrorJSON(apiErr *core.Error) {
	output := map[string]any{
		"error": map[string]any{
			"kind":    string(apiErr.Kind),
			"message": apiErr.Message,
			"status":  apiErr.Status,
			"code":    apiErr.Code,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func (a *App) outputSimpleErrorJSON(errType, message string) {
	output := map[string]any{
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

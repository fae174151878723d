// Package agent runs the conversational loop: it alternates between asking
// the model for a completion and dispatching the tool calls the model
// requests, until the model produces a plain answer or the iteration ceiling
// is reached.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/larshagen/calchat/internal/conversation"
	"github.com/larshagen/calchat/internal/instrumentation"
	"github.com/larshagen/calchat/internal/llm"
	"github.com/larshagen/calchat/internal/logging"
	"github.com/larshagen/calchat/internal/tools"
)

// ErrIterationLimit is returned when a turn does not converge to an answer
// within the configured iteration ceiling.
var ErrIterationLimit = errors.New("unable to complete the request")

const (
	defaultMaxIterations = 10
	defaultToolTimeout   = 30 * time.Second
)

// Options configures an Agent.
type Options struct {
	// SystemPrompt defaults to DefaultSystemPrompt.
	SystemPrompt string

	// MaxIterations bounds the reasoning/dispatching cycles per turn.
	MaxIterations int

	// ToolTimeout bounds each individual tool execution.
	ToolTimeout time.Duration

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

func (o Options) withDefaults() Options {
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.ToolTimeout <= 0 {
		o.ToolTimeout = defaultToolTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Agent owns one conversation session.
type Agent struct {
	llm      llm.Client
	registry *tools.Registry
	history  *conversation.History
	opts     Options
}

// New creates an agent with a fresh session history.
func New(client llm.Client, registry *tools.Registry, opts Options) *Agent {
	return &Agent{
		llm:      client,
		registry: registry,
		history:  conversation.NewHistory(),
		opts:     opts.withDefaults(),
	}
}

// SessionID returns the session identifier of this agent's history.
func (a *Agent) SessionID() string {
	return a.history.ID()
}

// History exposes the session history, mainly for inspection and tests.
func (a *Agent) History() *conversation.History {
	return a.history
}

// RunTurn processes one user input to completion. The returned string is the
// assistant's answer. A turn that exceeds the iteration ceiling returns
// ErrIterationLimit; a cancelled turn returns the context error, with all
// tool results produced so far already appended to the history.
func (a *Agent) RunTurn(ctx context.Context, input string) (string, error) {
	log := logging.WithSession(a.opts.Logger, a.history.ID())

	if err := a.history.Append(conversation.UserMessage(input)); err != nil {
		return "", err
	}

	for iteration := 1; iteration <= a.opts.MaxIterations; iteration++ {
		completion, err := a.llm.Complete(ctx, llm.Request{
			SystemPrompt: a.opts.SystemPrompt,
			Messages:     a.history.Messages(),
			Tools:        a.registry.Definitions(),
		})
		if err != nil {
			outcome := "error"
			if ctx.Err() != nil {
				outcome = "cancelled"
			}
			a.opts.Metrics.RecordAgentTurn(context.WithoutCancel(ctx), outcome, iteration)
			return "", err
		}

		if len(completion.ToolCalls) == 0 {
			if err := a.history.Append(conversation.AssistantMessage(completion.Content, nil)); err != nil {
				return "", err
			}
			a.opts.Metrics.RecordAgentTurn(ctx, "answered", iteration)
			log.Debug("turn answered", logging.Iteration(iteration))
			return completion.Content, nil
		}

		if err := a.history.Append(conversation.AssistantMessage(completion.Content, completion.ToolCalls)); err != nil {
			return "", err
		}

		log.Debug("dispatching tool calls",
			logging.Iteration(iteration), slog.Int("calls", len(completion.ToolCalls)))

		results := a.dispatchAll(ctx, completion.ToolCalls, log)
		msgs := make([]conversation.Message, 0, len(results))
		for _, result := range results {
			msgs = append(msgs, conversation.ToolMessage(result))
		}
		if err := a.history.Append(msgs...); err != nil {
			return "", err
		}

		// Results land in the history before cancellation is honoured, so an
		// interrupted turn never loses completed work.
		if ctx.Err() != nil {
			a.opts.Metrics.RecordAgentTurn(context.WithoutCancel(ctx), "cancelled", iteration)
			log.Info("turn cancelled", logging.Iteration(iteration))
			return "", ctx.Err()
		}
	}

	a.opts.Metrics.RecordAgentTurn(ctx, "iteration_cap", a.opts.MaxIterations)
	log.Warn("iteration ceiling reached", logging.Iteration(a.opts.MaxIterations))
	return "", ErrIterationLimit
}

// dispatchAll executes the calls concurrently. The returned results are in
// declaration order regardless of completion order.
func (a *Agent) dispatchAll(ctx context.Context, calls []conversation.ToolCall, log *slog.Logger) []conversation.ToolResult {
	results := make([]conversation.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call conversation.ToolCall) {
			defer wg.Done()
			results[i] = a.executeCall(ctx, call, log)
		}(i, call)
	}
	wg.Wait()

	return results
}

// executeCall dispatches one tool call under the per-call timeout. Failures
// become error results fed back to the model; retryable gateway failures get
// one retry first.
func (a *Agent) executeCall(ctx context.Context, call conversation.ToolCall, log *slog.Logger) conversation.ToolResult {
	callCtx, cancel := context.WithTimeout(ctx, a.opts.ToolTimeout)
	defer cancel()

	toolLog := logging.WithTool(log, call.Name)

	start := time.Now()
	out, err := a.registry.Dispatch(callCtx, call.Name, call.Arguments)
	if err != nil && tools.IsRetryable(err) && callCtx.Err() == nil {
		toolLog.Warn("tool failed, retrying once", logging.Err(err))
		out, err = a.registry.Dispatch(callCtx, call.Name, call.Arguments)
	}
	elapsed := time.Since(start)

	if err != nil {
		a.opts.Metrics.RecordToolInvocation(context.WithoutCancel(ctx), call.Name, instrumentation.StatusError, elapsed)
		toolLog.Warn("tool execution failed",
			logging.Status(logging.StatusError), logging.Duration(elapsed), logging.Err(err))
		return conversation.ToolResult{
			CallID:  call.ID,
			Content: tools.AsError(err).Message,
			IsError: true,
		}
	}

	a.opts.Metrics.RecordToolInvocation(context.WithoutCancel(ctx), call.Name, instrumentation.StatusSuccess, elapsed)
	toolLog.Debug("tool executed",
		logging.Status(logging.StatusSuccess), logging.Duration(elapsed))
	return conversation.ToolResult{CallID: call.ID, Content: out}
}

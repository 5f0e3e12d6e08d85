package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRounds bounds model calls per conversation when unset.
const DefaultMaxRounds = 6

// Observer receives orchestration events. The metrics package implements it.
type Observer interface {
	ObserveCompletion(provider string, elapsed time.Duration, usage Usage, err error)
	ObserveToolCall(tool string, isError bool)
	ObserveRun(rounds int, exhausted bool)
}

// Request is one conversation to run.
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  *float64
	JSONMode     bool

	// NoTools withholds the toolbox from this conversation.
	NoTools bool
}

// Result is the outcome of a conversation.
type Result struct {
	// Content is the final assistant text. On exhaustion it is the last
	// non-empty text the model produced, possibly empty.
	Content   string
	Rounds    int
	ToolCalls int
	Usage     Usage
	Exhausted bool
}

// UpstreamError wraps a failure to reach the provider, including context
// expiry. It is the only error Run returns.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type state int

const (
	awaitingModel state = iota
	dispatchingTools
	complete
	exhausted
)

// Orchestrator runs bounded tool-calling conversations against a Provider.
// It holds no per-conversation state and is safe for concurrent use.
type Orchestrator struct {
	provider  Provider
	tools     *Toolbox
	maxRounds int
	log       *zap.Logger
	observer  Observer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMaxRounds caps model calls per conversation.
func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log.With(zap.String("component", "orchestrator"))
	}
}

// WithObserver reports events to obs.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// NewOrchestrator creates an orchestrator. tools may be nil.
func NewOrchestrator(provider Provider, tools *Toolbox, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:  provider,
		tools:     tools,
		maxRounds: DefaultMaxRounds,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Provider returns the underlying provider.
func (o *Orchestrator) Provider() Provider {
	return o.provider
}

// Run drives the conversation until the model answers without tool calls
// or the round cap is reached. Tool failures never end the run; they are
// fed back to the model as error results.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	var defs []ToolDef
	if !req.NoTools {
		defs = o.tools.Defs()
	}

	transcript := []Message{{Role: RoleUser, Content: req.Prompt}}
	res := &Result{}
	var pending []ToolCall

	st := awaitingModel
	for {
		switch st {
		case awaitingModel:
			if res.Rounds >= o.maxRounds {
				st = exhausted
				continue
			}
			res.Rounds++

			resp, err := o.complete(ctx, &CompletionRequest{
				SystemPrompt: req.SystemPrompt,
				Messages:     transcript,
				Tools:        defs,
				MaxTokens:    req.MaxTokens,
				Temperature:  req.Temperature,
				JSONMode:     req.JSONMode,
			})
			if err != nil {
				o.observeRun(res)
				return nil, &UpstreamError{Provider: o.provider.Name(), Err: err}
			}
			res.Usage.Add(resp.Usage)
			if strings.TrimSpace(resp.Content) != "" {
				res.Content = resp.Content
			}

			if len(resp.ToolCalls) == 0 {
				st = complete
				continue
			}
			transcript = append(transcript, Message{
				Role:      RoleAssistant,
				Content:   resp.Content,
				ToolCalls: resp.ToolCalls,
			})
			pending = resp.ToolCalls
			st = dispatchingTools

		case dispatchingTools:
			for _, call := range pending {
				result := o.dispatch(ctx, call)
				res.ToolCalls++
				transcript = append(transcript, Message{Role: RoleUser, ToolResult: &result})
			}
			pending = nil
			st = awaitingModel

		case complete:
			o.observeRun(res)
			o.log.Debug("Conversation complete",
				zap.Int("rounds", res.Rounds),
				zap.Int("tool_calls", res.ToolCalls),
				zap.Int("total_tokens", res.Usage.TotalTokens),
			)
			return res, nil

		case exhausted:
			res.Exhausted = true
			o.observeRun(res)
			o.log.Warn("Tool round limit reached",
				zap.Int("rounds", res.Rounds),
				zap.Int("tool_calls", res.ToolCalls),
			)
			return res, nil
		}
	}
}

func (o *Orchestrator) complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()
	resp, err := o.provider.Complete(ctx, req)
	if err == nil && resp == nil {
		err = fmt.Errorf("empty response")
	}

	var usage Usage
	if resp != nil {
		usage = resp.Usage
	}
	if o.observer != nil {
		o.observer.ObserveCompletion(o.provider.Name(), time.Since(start), usage, err)
	}
	if err != nil {
		o.log.Error("Completion failed", zap.String("provider", o.provider.Name()), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// dispatch runs one tool call and always produces a result.
func (o *Orchestrator) dispatch(ctx context.Context, call ToolCall) (result ToolResult) {
	result = ToolResult{CallID: call.ID, Name: call.Name}
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("Tool panicked", zap.String("tool", call.Name), zap.Any("panic", r))
			result.Content = errorContent(fmt.Sprintf("tool %s failed", call.Name))
			result.IsError = true
		}
		if o.observer != nil {
			o.observer.ObserveToolCall(call.Name, result.IsError)
		}
	}()

	tool, ok := o.tools.Lookup(call.Name)
	if !ok {
		o.log.Warn("Model requested unknown tool", zap.String("tool", call.Name))
		result.Content = errorContent(fmt.Sprintf("unknown tool %q", call.Name))
		result.IsError = true
		return result
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			result.Content = errorContent(fmt.Sprintf("invalid arguments: %v", err))
			result.IsError = true
			return result
		}
	}

	out, err := tool.Handler(ctx, args)
	if err != nil {
		o.log.Warn("Tool call failed", zap.String("tool", call.Name), zap.Error(err))
		result.Content = errorContent(err.Error())
		result.IsError = true
		return result
	}

	data, err := json.Marshal(out)
	if err != nil {
		result.Content = errorContent(fmt.Sprintf("unencodable result: %v", err))
		result.IsError = true
		return result
	}
	result.Content = string(data)
	return result
}

func (o *Orchestrator) observeRun(res *Result) {
	if o.observer != nil {
		o.observer.ObserveRun(res.Rounds, res.Exhausted)
	}
}

func errorContent(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

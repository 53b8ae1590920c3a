package exec

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/dshills/flowdag-go/flow"
)

// Recommendation is a trade strategy's verdict for a symbol.
type Recommendation struct {
	Action     string  // "buy", "sell", or "hold"
	Confidence float64 // 0..1
	Reason     string
}

// Strategy evaluates a symbol and recommends an action. Strategies
// must be safe for concurrent use.
type Strategy interface {
	Evaluate(ctx context.Context, symbol string) (Recommendation, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, symbol string) (Recommendation, error)

// Evaluate implements Strategy.
func (f StrategyFunc) Evaluate(ctx context.Context, symbol string) (Recommendation, error) {
	return f(ctx, symbol)
}

// TradeAgentExecutor runs trade_agent nodes. Config:
//
//	strategy — strategy name (required)
//	symbol   — instrument symbol, alias asset (required, interpolated)
//
// Built-in strategies are momentum, mean_reversion, and hold; callers
// supply real ones through exec.Options.Strategies. Output carries
// action, confidence, reason, symbol, and strategy.
type TradeAgentExecutor struct {
	strategies map[string]Strategy
}

// NewTradeAgentExecutor builds the executor with the built-in
// strategies plus any extras, which override built-ins by name.
func NewTradeAgentExecutor(extra map[string]Strategy) *TradeAgentExecutor {
	strategies := map[string]Strategy{
		"momentum":       StrategyFunc(momentumStrategy),
		"mean_reversion": StrategyFunc(meanReversionStrategy),
		"hold":           StrategyFunc(holdStrategy),
	}
	for name, s := range extra {
		strategies[name] = s
	}
	return &TradeAgentExecutor{strategies: strategies}
}

// Execute implements flow.Executor.
func (t *TradeAgentExecutor) Execute(ctx context.Context, node *flow.Node, cfg flow.Config) (map[string]any, error) {
	name, err := cfg.Require("strategy")
	if err != nil {
		return nil, err
	}
	symbol, err := cfg.Require("symbol", "asset")
	if err != nil {
		return nil, err
	}

	strategy, ok := t.strategies[strings.ToLower(name)]
	if !ok {
		return nil, flow.NewError(flow.CodeExecutionFailed, "unknown strategy: "+name).WithNode(node.ID)
	}

	rec, err := strategy.Evaluate(ctx, symbol)
	if err != nil {
		return nil, flow.NewError(flow.CodeExecutionFailed, "strategy evaluation failed").WithNode(node.ID).WithCause(err)
	}

	return map[string]any{
		"action":     rec.Action,
		"confidence": rec.Confidence,
		"reason":     rec.Reason,
		"symbol":     symbol,
		"strategy":   strings.ToLower(name),
	}, nil
}

// The built-in strategies have no market feed; they derive a stable
// pseudo-signal from the symbol so workflows behave deterministically.

func momentumStrategy(_ context.Context, symbol string) (Recommendation, error) {
	if symbolSignal(symbol)%2 == 0 {
		return Recommendation{Action: "buy", Confidence: 0.6, Reason: "positive momentum signal"}, nil
	}
	return Recommendation{Action: "sell", Confidence: 0.6, Reason: "negative momentum signal"}, nil
}

func meanReversionStrategy(_ context.Context, symbol string) (Recommendation, error) {
	if symbolSignal(symbol)%2 == 0 {
		return Recommendation{Action: "sell", Confidence: 0.55, Reason: "price above rolling mean"}, nil
	}
	return Recommendation{Action: "buy", Confidence: 0.55, Reason: "price below rolling mean"}, nil
}

func holdStrategy(_ context.Context, _ string) (Recommendation, error) {
	return Recommendation{Action: "hold", Confidence: 1, Reason: "hold strategy never trades"}, nil
}

func symbolSignal(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(symbol)))
	return h.Sum32()
}

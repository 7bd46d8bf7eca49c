package insights

import "context"

// Provider is a one-shot text generation backend used to turn an aggregate
// report into an AI risk analysis. Providers are optional: the pipeline
// works without one, falling back to heuristic insights.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

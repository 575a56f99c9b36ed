package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Router раскидывает запросы по провайдерам.
// Идентификатор модели: "provider/model" или просто "model",
// тогда берётся провайдер по умолчанию.
type Router struct {
	providers       map[string]Completer
	defaultProvider string
}

func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Completer),
		defaultProvider: defaultProvider,
	}
}

func (r *Router) Register(name string, c Completer) {
	r.providers[name] = c
}

func (r *Router) Providers() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Router) Complete(ctx context.Context, req Request) (string, error) {
	provider, model := r.resolve(req.Model)

	c, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w %q for model %q", ErrUnknownProvider, provider, req.Model)
	}

	req.Model = model
	return c.Complete(ctx, req)
}

// resolve режет префикс, только если это зарегистрированный провайдер.
// "google/gemini-2.0-flash" при незнакомом "google" целиком уходит
// провайдеру по умолчанию (OpenAI-совместимые шлюзы).
func (r *Router) resolve(id string) (provider, model string) {
	provider, model = SplitModel(id, r.defaultProvider)
	if _, ok := r.providers[provider]; ok {
		return provider, model
	}
	return r.defaultProvider, id
}

// SplitModel: "ollama/llama3" → ("ollama", "llama3"), "gpt-4o" → (default, "gpt-4o").
func SplitModel(id, defaultProvider string) (provider, model string) {
	if i := strings.Index(id, "/"); i > 0 {
		return id[:i], id[i+1:]
	}
	return defaultProvider, id
}

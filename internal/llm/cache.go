package llm

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Generator is the generation contract consumed throughout the service.
// *Client and *CachedClient both satisfy it.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

const cacheSize = 100

// CachedClient memoizes successful generations for identical prompts at
// default options, evicting least-recently-used entries past 100. Non-default
// calls (the higher-temperature impact messages) always go to the upstream
// generator.
type CachedClient struct {
	upstream Generator
	cache    *lru.Cache[string, string]
}

func NewCachedClient(upstream Generator) *CachedClient {
	cache, _ := lru.New[string, string](cacheSize)
	return &CachedClient{upstream: upstream, cache: cache}
}

func (c *CachedClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if !opts.IsDefault() {
		return c.upstream.Generate(ctx, prompt, opts)
	}

	if text, ok := c.cache.Get(prompt); ok {
		return text, nil
	}

	text, err := c.upstream.Generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	c.cache.Add(prompt, text)
	return text, nil
}

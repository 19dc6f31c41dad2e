package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
	text  string
	err   error
}

func (g *countingGenerator) Generate(context.Context, string, Options) (string, error) {
	g.calls++
	return g.text, g.err
}

func TestCachedClientMemoizesDefaultCalls(t *testing.T) {
	upstream := &countingGenerator{text: "cached answer"}
	client := NewCachedClient(upstream)

	for i := 0; i < 3; i++ {
		text, err := client.Generate(context.Background(), "same prompt", Options{})
		require.NoError(t, err)
		assert.Equal(t, "cached answer", text)
	}
	assert.Equal(t, 1, upstream.calls)

	_, err := client.Generate(context.Background(), "different prompt", Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedClientBypassesNonDefaultOptions(t *testing.T) {
	upstream := &countingGenerator{text: "fresh"}
	client := NewCachedClient(upstream)

	for i := 0; i < 3; i++ {
		_, err := client.Generate(context.Background(), "same prompt", Options{Temperature: 0.8})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, upstream.calls, "high-temperature calls must stay unmemoized")
}

func TestCachedClientDoesNotCacheErrors(t *testing.T) {
	upstream := &countingGenerator{err: errors.New("down")}
	client := NewCachedClient(upstream)

	_, err := client.Generate(context.Background(), "p", Options{})
	require.Error(t, err)
	_, err = client.Generate(context.Background(), "p", Options{})
	require.Error(t, err)
	assert.Equal(t, 2, upstream.calls)

	upstream.err = nil
	upstream.text = "recovered"
	text, err := client.Generate(context.Background(), "p", Options{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
}

func TestCachedClientEvictsLeastRecentlyUsed(t *testing.T) {
	upstream := &countingGenerator{text: "x"}
	client := NewCachedClient(upstream)

	for i := 0; i < cacheSize+1; i++ {
		_, err := client.Generate(context.Background(), fmt.Sprintf("prompt-%d", i), Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, cacheSize+1, upstream.calls)

	// prompt-0 was evicted, prompt-1 is still resident.
	_, _ = client.Generate(context.Background(), "prompt-1", Options{})
	assert.Equal(t, cacheSize+1, upstream.calls)
	_, _ = client.Generate(context.Background(), "prompt-0", Options{})
	assert.Equal(t, cacheSize+2, upstream.calls)
}

package hooks

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderOrdersByPriorityThenInsertion(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add("analytics", 20, `<script src="/a.js"></script>`)
	r.Add("stylesheet", DefaultPriority, `<link rel="stylesheet" href="/style.css">`)
	r.Add("generator", DefaultPriority, `<meta name="generator" content="hanko-theme">`)
	r.Add("preconnect", 1, `<link rel="preconnect" href="https://cdn.example.com">`)

	want := `<link rel="preconnect" href="https://cdn.example.com">` + "\n" +
		`<link rel="stylesheet" href="/style.css">` + "\n" +
		`<meta name="generator" content="hanko-theme">` + "\n" +
		`<script src="/a.js"></script>`
	require.Equal(t, want, string(r.Render()))
}

func TestAddReplacesByName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add("a", 10, "one")
	r.Add("b", 10, "two")
	r.Add("a", 10, "three")
	require.Equal(t, 2, r.Len())
	require.Equal(t, "three\ntwo", string(r.Render()))

	require.True(t, r.Remove("a"))
	require.False(t, r.Remove("a"))
	require.Equal(t, "two", string(r.Render()))
}

func TestRenderSkipsEmptyAndKeepsRawMarkup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.Empty(t, r.Render())
	r.Add("", 10, "")
	r.Add("", 10, `<style>a > b { color: red }</style>`)
	require.Equal(t, `<style>a > b { color: red }</style>`, string(r.Render()))
}

func TestRegistryConcurrentUse(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Add(fmt.Sprintf("frag-%d", i), i%3, fmt.Sprintf("<!-- %d -->", i))
			_ = r.Render()
		}(i)
	}
	wg.Wait()
	require.Equal(t, 20, r.Len())
}

package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.Snapshot())
	assert.Zero(t, store.Saves())
}

func TestNewConfigStoreFrom_CopiesValues(t *testing.T) {
	seed := map[string]any{"llm.model": "mistral"}
	store := NewConfigStoreFrom(seed)

	seed["llm.model"] = "changed"
	assert.Equal(t, "mistral", store.GetString("llm.model"))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("embedding.model", "all-minilm"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))

	val, ok := store.Get("embedding.model")
	assert.True(t, ok)
	assert.Equal(t, "nomic-embed-text", val)
	assert.Equal(t, 2, store.Saves())

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"s":      "text",
		"i":      7,
		"i64":    int64(300),
		"f":      float64(450),
		"b":      true,
		"number": "12",
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "string", got: store.GetString("s"), want: "text"},
		{name: "string wrong type", got: store.GetString("i"), want: ""},
		{name: "int", got: store.GetInt("i"), want: 7},
		{name: "int64", got: store.GetInt("i64"), want: 300},
		{name: "float64", got: store.GetInt("f"), want: 450},
		{name: "int from string", got: store.GetInt("number"), want: 0},
		{name: "int missing", got: store.GetInt("missing"), want: 0},
		{name: "int from bool", got: store.GetInt("b"), want: 0},
		{name: "string from bool", got: store.GetString("b"), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("chunking.size", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("chunking.size")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Saves())
}

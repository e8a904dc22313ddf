package codes

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CodeStore that mimics the database's unique
// constraint for tests.
type memStore struct {
	mu    sync.Mutex
	codes map[string]bool
}

func newMemStore() *memStore {
	return &memStore{codes: make(map[string]bool)}
}

func (s *memStore) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[code], nil
}

func (s *memStore) add(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = true
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "K7M2PQXT", Normalize("k7m2pqxt"))
	assert.Equal(t, "K7M2PQXT", Normalize("  K7m2pqXT\n"))
	assert.Equal(t, "", Normalize("   "))
}

func TestIsWellFormed(t *testing.T) {
	assert.True(t, IsWellFormed("K7M2PQXT"))
	assert.False(t, IsWellFormed("K7M2PQX"), "too short")
	assert.False(t, IsWellFormed("K7M2PQXTT"), "too long")
	assert.False(t, IsWellFormed("K7M2PQX0"), "0 is not in the alphabet")
	assert.False(t, IsWellFormed("k7m2pqxt"), "lowercase is not normalized")
}

func TestGenerateShape(t *testing.T) {
	gen := NewGenerator(newMemStore())

	for i := 0; i < 50; i++ {
		code, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, IsWellFormed(code), "generated code %q must be well formed", code)
		assert.Equal(t, code, Normalize(code), "generated code must already be normalized")
	}
}

func TestGenerateAvoidsIssuedCodes(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator(store)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[code], "code %q issued twice", code)
		seen[code] = true
		store.add(code)
	}
}

func TestGenerateConcurrentCodesDistinct(t *testing.T) {
	store := newMemStore()
	gen := NewGenerator(store)

	const workers = 32
	results := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := gen.Generate(context.Background())
			if err != nil {
				t.Error(err)
				return
			}
			store.add(code)
			results <- code
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool)
	for code := range results {
		assert.False(t, seen[code], "code %q issued to two concurrent callers", code)
		seen[code] = true
	}
	// The fake store serializes existence checks, so every worker must have
	// received a code.
	assert.Len(t, seen, workers)
}

// exhaustedStore reports every candidate as taken.
type exhaustedStore struct{}

func (exhaustedStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return true, nil
}

func TestGenerateFailsLoudlyWhenExhausted(t *testing.T) {
	gen := NewGenerator(exhaustedStore{})

	code, err := gen.Generate(context.Background())
	assert.Empty(t, code)
	assert.ErrorIs(t, err, ErrSpaceExhausted)
}

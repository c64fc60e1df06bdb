package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arwiki/internal/arwiki"
	"github.com/roach88/arwiki/internal/ledger"
)

func TestFixedIDGenerator_Sequence(t *testing.T) {
	gen := NewFixedIDGenerator("s-1", "s-2")

	assert.Equal(t, "s-1", gen.Generate())
	assert.Equal(t, "s-2", gen.Generate())
	assert.Equal(t, "s-2", gen.Generate(), "last id repeats")
}

func TestFixedIDGenerator_EmptyDefault(t *testing.T) {
	assert.Equal(t, "test-session", NewFixedIDGenerator().Generate())
}

func TestFixedIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewFixedIDGenerator("thread-safe-id")

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-id", gen.Generate())
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestFakeLedger_MatchesPredicates(t *testing.T) {
	l := NewFakeLedger(
		ledger.Transaction{ID: "a", Tags: ledger.Tags{{Name: "T", Value: "1"}, {Name: "L", Value: "en"}}},
		ledger.Transaction{ID: "b", Tags: ledger.Tags{{Name: "T", Value: "2"}, {Name: "L", Value: "en"}}},
		ledger.Transaction{ID: "c", Tags: ledger.Tags{{Name: "T", Value: "1"}, {Name: "L", Value: "es"}}},
	)
	ctx := context.Background()

	got, err := l.FetchByTags(ctx, []ledger.TagPredicate{
		{Name: "T", Values: []string{"1", "2"}},
		{Name: "L", Values: []string{"en"}},
	}, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = l.FetchByTags(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	h, err := l.NetworkHeight(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), h)

	got, err = l.FetchByIDs(ctx, []string{"c", "zzz"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Block)
	assert.Equal(t, [][]string{{"c", "zzz"}}, l.IDBatches)
}

func TestFakeState_SetFailCalls(t *testing.T) {
	f := NewFakeState().Set("lang", map[string]any{"en": map[string]any{"active": true}})
	ctx := context.Background()

	s, err := f.State(ctx, "lang")
	require.NoError(t, err)
	assert.Contains(t, s, "en")

	boom := errors.New("boom")
	f.Fail("lang", boom)
	_, err = f.State(ctx, "lang")
	assert.ErrorIs(t, err, boom)

	_, err = f.State(ctx, "missing")
	assert.Error(t, err)
	assert.Equal(t, 2, f.Calls("lang"))
}

func TestMemoryPreferences(t *testing.T) {
	p := NewMemoryPreferences(nil)
	assert.Equal(t, "", p.DefaultLanguage())

	require.NoError(t, p.SetDefaultLanguage(arwiki.LanguageEntry{Code: "es"}))
	assert.Equal(t, "es", p.DefaultLanguage())
	assert.Equal(t, 1, p.SetCalls)

	require.NoError(t, p.SetDefaultNetwork("localhost"))
	assert.Equal(t, "localhost", p.DefaultNetwork())
}

package store

import (
	"context"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triet4p/itapia-sub001/pkg/errors"
	"github.com/triet4p/itapia-sub001/pkg/rules"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func growRule(t *testing.T, seed int64) *rules.Rule {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	root, err := rules.GrowRoot(rng, 4, rules.DefaultTerminalProb, rules.TypeDecisionSignal, rules.DefaultTradingPool())
	require.NoError(t, err)
	rule, err := rules.NewRule("stored-rule", "grown for store tests", root)
	require.NoError(t, err)
	return rule
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rule := growRule(t, 3)
	rule.RecordMetrics(map[string]float64{"cagr": 0.12, "total_trades": 40})
	require.NoError(t, store.Save(ctx, rule))

	loaded, err := store.Get(ctx, rule.RuleID)
	require.NoError(t, err)

	assert.Equal(t, rule.RuleID, loaded.RuleID)
	assert.Equal(t, rule.Name, loaded.Name)
	assert.Equal(t, rule.Status, loaded.Status)
	assert.Equal(t, rule.Purpose(), loaded.Purpose())
	assert.Equal(t, rule.Metrics, loaded.Metrics)

	// Structural round trip: the loaded tree serializes identically.
	want, err := json.Marshal(rule.ToEntity().Root)
	require.NoError(t, err)
	got, err := json.Marshal(loaded.ToEntity().Root)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestSaveUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rule := growRule(t, 5)
	require.NoError(t, store.Save(ctx, rule))

	rule.SetStatus(rules.StatusDeprecated)
	require.NoError(t, store.Save(ctx, rule))

	loaded, err := store.Get(ctx, rule.RuleID)
	require.NoError(t, err)
	assert.Equal(t, rules.StatusDeprecated, loaded.Status)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissingRule(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, errors.ResourceNotFound, errors.Code(err))
}

func TestSaveNilRule(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.Code(err))
}

func TestListByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ready := growRule(t, 1)
	ready.SetStatus(rules.StatusReady)
	evolving := growRule(t, 2)

	require.NoError(t, store.Save(ctx, ready))
	require.NoError(t, store.Save(ctx, evolving))

	got, err := store.ListByStatus(ctx, rules.StatusReady)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ready.RuleID, got[0].RuleID)

	none, err := store.ListByStatus(ctx, rules.StatusDeprecated)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByPurpose(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rule := growRule(t, 9)
	require.NoError(t, store.Save(ctx, rule))

	got, err := store.ListByPurpose(ctx, rules.TypeDecisionSignal)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	none, err := store.ListByPurpose(ctx, rules.TypeRiskLevel)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rule := growRule(t, 4)
	require.NoError(t, store.Save(ctx, rule))
	require.NoError(t, store.Delete(ctx, rule.RuleID))

	_, err := store.Get(ctx, rule.RuleID)
	require.Error(t, err)

	err = store.Delete(ctx, rule.RuleID)
	require.Error(t, err)
	assert.Equal(t, errors.ResourceNotFound, errors.Code(err))
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	rule := growRule(t, 8)
	require.NoError(t, store.Save(ctx, rule))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Get(ctx, rule.RuleID)
	require.NoError(t, err)
	assert.Equal(t, rule.RuleID, loaded.RuleID)
}

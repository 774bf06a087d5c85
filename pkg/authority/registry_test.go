package authority

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/localauth/pkg/logging"
)

func seedAuthority(t *testing.T, store *memStore, name string, labels ...string) int64 {
	t.Helper()
	a, err := store.CreateAuthority(context.Background(), name)
	require.NoError(t, err)
	fixtures := make(entryFixtures, 0, len(labels))
	for _, label := range labels {
		fixtures = append(fixtures, entryFixture{authorityID: a.ID, label: label})
	}
	_, err = store.Writer().WriteEntries(context.Background(), fixtures.entries())
	require.NoError(t, err)
	return a.ID
}

func TestRegisterVocabularyBindsOnce(t *testing.T) {
	store := newMemStore()
	authorityID := seedAuthority(t, store, "animals")
	registry := NewRegistry(store, logging.Discard())
	ctx := context.Background()

	require.NoError(t, registry.RegisterVocabulary(ctx, ForModel("books"), "creator", "animals"))
	require.NoError(t, registry.RegisterVocabulary(ctx, ForModel("books"), "creator", "animals"))

	assert.Equal(t, 1, store.bindingCount())
	assert.Equal(t, 1, store.termCount())

	dt, err := store.FindDomainTerm(ctx, ForModel("books"), "creator")
	require.NoError(t, err)
	ids, err := store.AuthorityIDs(ctx, dt.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{authorityID}, ids)
}

func TestRegisterVocabularyScopesAreDistinct(t *testing.T) {
	store := newMemStore()
	seedAuthority(t, store, "animals")
	seedAuthority(t, store, "places")
	registry := NewRegistry(store, logging.Discard())
	ctx := context.Background()

	require.NoError(t, registry.RegisterVocabulary(ctx, ForModel("books"), "creator", "animals"))
	require.NoError(t, registry.RegisterVocabulary(ctx, AnyModel(), "creator", "animals"))
	require.NoError(t, registry.RegisterVocabulary(ctx, ForModel("books"), "creator", "places"))

	assert.Equal(t, 2, store.termCount())
	assert.Equal(t, 3, store.bindingCount())

	dt, err := store.FindDomainTerm(ctx, ForModel("books"), "creator")
	require.NoError(t, err)
	ids, err := store.AuthorityIDs(ctx, dt.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestRegisterVocabularyMissingAuthority(t *testing.T) {
	var buf bytes.Buffer
	store := newMemStore()
	registry := NewRegistry(store, logging.New("info", &buf))

	err := registry.RegisterVocabulary(context.Background(), AnyModel(), "creator", "nope")
	require.NoError(t, err)

	assert.Equal(t, 0, store.termCount())
	assert.Equal(t, 0, store.bindingCount())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "authorityctl harvest rdf nope")
	assert.Contains(t, buf.String(), "authority=nope")
}

func TestRegisterVocabularyLogsNewBindingOnly(t *testing.T) {
	var buf bytes.Buffer
	store := newMemStore()
	seedAuthority(t, store, "animals")
	registry := NewRegistry(store, logging.New("info", &buf))
	ctx := context.Background()

	require.NoError(t, registry.RegisterVocabulary(ctx, AnyModel(), "subject", "animals"))
	require.NoError(t, registry.RegisterVocabulary(ctx, AnyModel(), "subject", "animals"))

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Registered vocabulary")))
}

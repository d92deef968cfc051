package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foolclub/boleta-api/internal/domain"
)

// -- Mock source -------------------------------------------------------------

type mockSource struct {
	kind domain.CollectionKind
	col  *domain.Collection
}

func (m *mockSource) Kind() domain.CollectionKind { return m.kind }

func (m *mockSource) CollectionByUUID(_ context.Context, _ string) (*domain.Collection, error) {
	return m.col, nil
}

// -- Tests -------------------------------------------------------------------

func TestKindRegistry_RegisterAndGet(t *testing.T) {
	registry := NewKindRegistry()
	billboard := &mockSource{kind: domain.KindBillboard}
	review := &mockSource{kind: domain.KindReview}

	registry.Register(billboard)
	registry.Register(review)

	got, err := registry.Get(domain.KindBillboard)
	require.NoError(t, err)
	assert.Same(t, billboard, got)

	got, err = registry.Get(domain.KindReview)
	require.NoError(t, err)
	assert.Same(t, review, got)
}

func TestKindRegistry_UnknownKind(t *testing.T) {
	registry := NewKindRegistry()

	_, err := registry.Get(domain.CollectionKind("mixtape"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collection kind")
}

func TestKindRegistry_RegisterOverwrites(t *testing.T) {
	registry := NewKindRegistry()
	first := &mockSource{kind: domain.KindBillboard}
	second := &mockSource{kind: domain.KindBillboard}

	registry.Register(first)
	registry.Register(second)

	got, err := registry.Get(domain.KindBillboard)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestKindRegistry_Available(t *testing.T) {
	registry := NewKindRegistry()
	assert.Empty(t, registry.Available())

	registry.Register(&mockSource{kind: domain.KindBillboard})
	registry.Register(&mockSource{kind: domain.KindReview})

	assert.ElementsMatch(t,
		[]domain.CollectionKind{domain.KindBillboard, domain.KindReview},
		registry.Available())
}

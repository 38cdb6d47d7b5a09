package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalogGet(t *testing.T) {
	c := NewMemoryCatalog(validPipeline())
	ctx := context.Background()

	p, err := c.Get(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, "sales", p.ID)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrPipelineNotFound)
}

func TestMemoryCatalogListSorted(t *testing.T) {
	b := validPipeline()
	b.ID = "b-renewals"
	a := validPipeline()
	a.ID = "a-sales"
	c := NewMemoryCatalog(b, a)

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-sales", list[0].ID)
	assert.Equal(t, "b-renewals", list[1].ID)
}

func TestMemoryCatalogSave(t *testing.T) {
	c := NewMemoryCatalog()
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, validPipeline()))

	got, err := c.Get(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Name)

	// Upsert replaces the definition.
	renamed := validPipeline()
	renamed.Name = "Sales v2"
	require.NoError(t, c.Save(ctx, renamed))
	got, _ = c.Get(ctx, "sales")
	assert.Equal(t, "Sales v2", got.Name)

	assert.Error(t, c.Save(ctx, &Pipeline{ID: "empty"}), "corrupted definitions are rejected")
}

func TestMemoryCatalogDefault(t *testing.T) {
	ctx := context.Background()

	flagged := validPipeline()
	flagged.ID = "flagged"
	flagged.IsDefault = true
	other := validPipeline()
	other.ID = "other"

	c := NewMemoryCatalog(flagged, other)
	p, err := c.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "flagged", p.ID)

	// A single pipeline is the default even without the flag.
	c = NewMemoryCatalog(other)
	p, err = c.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other", p.ID)

	c = NewMemoryCatalog(validPipeline(), other)
	_, err = c.Default(ctx)
	assert.ErrorIs(t, err, ErrNoDefault)
}

func TestMemoryCatalogReturnsClones(t *testing.T) {
	c := NewMemoryCatalog(validPipeline())

	p, _ := c.Get(context.Background(), "sales")
	p.Stages[0].ID = "mutated"

	again, _ := c.Get(context.Background(), "sales")
	assert.Equal(t, "won", again.Stages[0].ID)
}

package pipeline

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCatalog(t *testing.T) (*RedisCatalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCatalog(client), mr
}

func TestRedisCatalogSaveAndGet(t *testing.T) {
	c, _ := newRedisCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, validPipeline()))

	got, err := c.Get(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, "Sales", got.Name)
	require.Len(t, got.Stages, 3)
	assert.True(t, got.Stages[0].IsClosedWon)
}

func TestRedisCatalogSaveWritesDocumentAndIndexTogether(t *testing.T) {
	c, mr := newRedisCatalog(t)

	require.NoError(t, c.Save(context.Background(), validPipeline()))

	assert.True(t, mr.Exists("crm:pipeline:sales"))
	members, err := mr.Members(catalogIndexKey)
	require.NoError(t, err)
	assert.Contains(t, members, "sales", "a saved document must always be listed")
}

func TestRedisCatalogGetMissing(t *testing.T) {
	c, _ := newRedisCatalog(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrPipelineNotFound)
}

func TestRedisCatalogSaveRejectsInvalid(t *testing.T) {
	c, mr := newRedisCatalog(t)

	err := c.Save(context.Background(), &Pipeline{ID: "empty"})
	assert.Error(t, err)
	assert.False(t, mr.Exists("crm:pipeline:empty"), "rejected pipeline must not be persisted")
}

func TestRedisCatalogList(t *testing.T) {
	c, _ := newRedisCatalog(t)
	ctx := context.Background()

	b := validPipeline()
	b.ID = "b-renewals"
	a := validPipeline()
	a.ID = "a-sales"
	require.NoError(t, c.Save(ctx, b))
	require.NoError(t, c.Save(ctx, a))

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a-sales", list[0].ID)
	assert.Equal(t, "b-renewals", list[1].ID)
}

func TestRedisCatalogListSkipsDanglingIndexEntries(t *testing.T) {
	c, mr := newRedisCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.Save(ctx, validPipeline()))
	_, err := mr.SetAdd(catalogIndexKey, "ghost")
	require.NoError(t, err)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "sales", list[0].ID)
}

func TestRedisCatalogDefault(t *testing.T) {
	c, _ := newRedisCatalog(t)
	ctx := context.Background()

	flagged := validPipeline()
	flagged.ID = "flagged"
	flagged.IsDefault = true
	require.NoError(t, c.Save(ctx, validPipeline()))
	require.NoError(t, c.Save(ctx, flagged))

	p, err := c.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "flagged", p.ID)
}

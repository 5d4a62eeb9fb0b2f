package rediskv

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjamonnguyen/eisenhower"
)

func newTestRepo(t *testing.T, namespace string) (eisenhower.KVRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVRepo(client, namespace, log.New(io.Discard)), mr
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = Open(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestKVRepo(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t, "test")

	_, err := repo.Get(ctx, "sessions")
	assert.ErrorIs(t, err, eisenhower.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "sessions", `[{"id":"a"}]`))
	v, err := repo.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, v)
	assert.Equal(t, `[{"id":"a"}]`, mr.HGet("test", "sessions"))

	assert.Error(t, repo.Set(ctx, "", "x"))
}

func TestKVRepo_SetManyAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t, "test")

	require.NoError(t, repo.SetMany(ctx, map[string]string{
		"theme": "dark",
		"tasks": "[]",
		"notes": "[]",
	}))
	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes", "tasks", "theme"}, keys)

	require.NoError(t, repo.Delete(ctx, "notes", "theme"))
	keys, err = repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tasks"}, keys)

	assert.NoError(t, repo.SetMany(ctx, nil))
	assert.Error(t, repo.SetMany(ctx, map[string]string{"": "x"}))
}

func TestKVRepo_ServerDown(t *testing.T) {
	repo, mr := newTestRepo(t, "test")
	mr.Close()

	p := eisenhower.NewPersister(repo, nil, 0)
	_, ok, err := p.LoadText(eisenhower.KeyTheme)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.NotPanics(t, func() { p.SaveText(eisenhower.KeyTheme, "dark") })
}

func TestKVRepo_HashPerNamespace(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	def := NewKVRepo(client, eisenhower.DefaultNamespace, nil)
	work := NewKVRepo(client, "work", nil)
	require.NoError(t, def.Set(ctx, "theme", "dark"))
	require.NoError(t, work.Set(ctx, "theme", "light"))

	assert.Equal(t, []string{"eisenhower", "work"}, mr.Keys())
	assert.Equal(t, "dark", mr.HGet("eisenhower", "theme"))
	v, err := work.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

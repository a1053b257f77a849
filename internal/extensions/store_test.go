package extensions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevSymphony/goosectl/internal/goosed"
)

type fakeBackend struct {
	extended []string
	removed  []string
	err      error
}

func (f *fakeBackend) Extend(_ context.Context, ext goosed.ExtensionConfig) error {
	f.extended = append(f.extended, ext.Name)
	return f.err
}

func (f *fakeBackend) ExtendFromURL(ctx context.Context, link string) (goosed.FullExtensionConfig, error) {
	ext, err := goosed.ParseDeepLink(link)
	if err != nil {
		return goosed.FullExtensionConfig{}, err
	}
	if err := f.Extend(ctx, ext.ExtensionConfig); err != nil {
		return goosed.FullExtensionConfig{}, err
	}
	return ext, nil
}

func (f *fakeBackend) RemoveExtension(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return f.err
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "extensions.json"))
}

func TestStore_List(t *testing.T) {
	t.Run("defaults when empty", func(t *testing.T) {
		store := newTestStore(t)

		exts, err := store.List()
		require.NoError(t, err)
		require.Len(t, exts, 1)
		assert.Equal(t, "developer", exts[0].ID)
		assert.Equal(t, goosed.ExtensionBuiltin, exts[0].Type)
		assert.True(t, exts[0].Enabled)
	})

	t.Run("corrupt file", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, os.WriteFile(store.path, []byte("[{"), 0600))

		_, err := store.List()
		assert.Error(t, err)
	})
}

func TestStore_AttachURL(t *testing.T) {
	store := newTestStore(t)
	backend := &fakeBackend{}

	ext, err := store.AttachURL(context.Background(), backend, "goose://extension?cmd=npx&arg=-y&arg=server-memory&id=memory&name=Memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", ext.ID)
	assert.Equal(t, []string{"Memory"}, backend.extended)

	exts, err := store.List()
	require.NoError(t, err)
	require.Len(t, exts, 2)
	assert.Equal(t, "developer", exts[0].ID)
	assert.Equal(t, "memory", exts[1].ID)

	t.Run("same id replaces", func(t *testing.T) {
		_, err := store.AttachURL(context.Background(), backend, "goose://extension?cmd=uvx&arg=server-memory&id=memory&name=Memory")
		require.NoError(t, err)

		got, err := store.Get("memory")
		require.NoError(t, err)
		assert.Equal(t, "uvx", got.Cmd)

		exts, err := store.List()
		require.NoError(t, err)
		assert.Len(t, exts, 2)
	})

	t.Run("invalid link stores nothing", func(t *testing.T) {
		_, err := store.AttachURL(context.Background(), backend, "goose://extension?cmd=sh")
		assert.Error(t, err)

		exts, err := store.List()
		require.NoError(t, err)
		assert.Len(t, exts, 2)
	})

	t.Run("backend refusal stores nothing", func(t *testing.T) {
		store := newTestStore(t)
		_, err := store.AttachURL(context.Background(), &fakeBackend{err: errors.New("goosed down")}, "goose://extension?cmd=npx&id=other")
		assert.Error(t, err)

		_, err = store.Get("other")
		assert.Error(t, err)
	})

	t.Run("save failure still reports the attached extension", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0600))
		store := NewStore(filepath.Join(blocker, "extensions.json"))

		ext, err := store.AttachURL(context.Background(), &fakeBackend{}, "goose://extension?cmd=npx&id=other")
		assert.ErrorIs(t, err, ErrNotSaved)
		assert.Equal(t, "other", ext.ID)
	})
}

// goosedStub answers every backend call with 200 and records the extension
// names it was asked to attach and to remove.
type goosedStub struct {
	mu       sync.Mutex
	attached []string
	removed  []string
}

func (g *goosedStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch r.URL.Path {
	case "/extensions/add":
		var ext goosed.ExtensionConfig
		if err := json.NewDecoder(r.Body).Decode(&ext); err == nil {
			g.attached = append(g.attached, ext.Name)
		}
	case "/extensions/remove":
		var name string
		if err := json.NewDecoder(r.Body).Decode(&name); err == nil {
			g.removed = append(g.removed, name)
		}
	}
	w.WriteHeader(http.StatusOK)
}

func TestStore_AttachURLThenToggle(t *testing.T) {
	stub := &goosedStub{}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	client := goosed.NewClient(srv.URL)
	store := newTestStore(t)

	ext, err := store.AttachURL(context.Background(), client, "goose://extension?cmd=npx&arg=-y&arg=pkg")
	require.NoError(t, err)

	stored, err := store.Get(ext.ID)
	require.NoError(t, err)
	assert.Equal(t, ext.Name, stored.Name)

	toggled, err := store.Toggle(context.Background(), client, ext.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.attached, 1)
	require.Len(t, stub.removed, 1)
	assert.Equal(t, stub.attached[0], stub.removed[0])
}

func TestStore_Toggle(t *testing.T) {
	t.Run("disable then enable", func(t *testing.T) {
		store := newTestStore(t)
		backend := &fakeBackend{}

		ext, err := store.Toggle(context.Background(), backend, "developer")
		require.NoError(t, err)
		assert.False(t, ext.Enabled)
		assert.Equal(t, []string{"developer"}, backend.removed)

		ext, err = store.Toggle(context.Background(), backend, "developer")
		require.NoError(t, err)
		assert.True(t, ext.Enabled)
		assert.Equal(t, []string{"developer"}, backend.extended)

		enabled, err := store.Enabled()
		require.NoError(t, err)
		assert.Len(t, enabled, 1)
	})

	t.Run("backend failure keeps stored state", func(t *testing.T) {
		store := newTestStore(t)
		backend := &fakeBackend{err: errors.New("goosed down")}

		_, err := store.Toggle(context.Background(), backend, "developer")
		require.Error(t, err)

		got, err := store.Get("developer")
		require.NoError(t, err)
		assert.True(t, got.Enabled)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.Toggle(context.Background(), &fakeBackend{}, "missing")
		assert.Error(t, err)
	})
}

func TestStore_Put(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Put(goosed.FullExtensionConfig{ExtensionConfig: goosed.Builtin("x")}))
	assert.NoError(t, store.Put(goosed.FullExtensionConfig{ExtensionConfig: goosed.Builtin("memory"), ID: "memory"}))

	enabled, err := store.Enabled()
	require.NoError(t, err)
	assert.Len(t, enabled, 1, "new entries are disabled unless marked otherwise")
}

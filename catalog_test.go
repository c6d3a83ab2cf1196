package png2src

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasm4kit/png2src/sprite"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()

	db, err := OpenCatalog(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	return db
}

func TestCatalogPut(t *testing.T) {
	t.Parallel()

	db := testCatalog(t)

	s := sprite.New("player", 4, 4, sprite.Blit2BPP, []byte{0x5a, 0x5a, 0xf0, 0xf0})

	changed, err := db.Put("assets/player.png", "AAAA", s)
	require.NoError(t, err)
	require.True(t, changed)

	// Same checksum: nothing to do.
	changed, err = db.Put("assets/player.png", "AAAA", s)
	require.NoError(t, err)
	require.False(t, changed)

	// A new checksum for the same path replaces the row.
	bigger := sprite.New("player", 8, 8, sprite.Blit1BPP, []byte{0xff, 0x00, 0xff, 0x00, 0xff, 0x00, 0xff, 0x00})
	changed, err = db.Put("assets/player.png", "BBBB", bigger)
	require.NoError(t, err)
	require.True(t, changed)

	got, err := db.Sprite("player")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Zero(t, bigger.Compare(got))

	entries, err := db.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCatalogSpriteMissing(t *testing.T) {
	t.Parallel()

	db := testCatalog(t)

	s, err := db.Sprite("nothing")
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestCatalogEntries(t *testing.T) {
	t.Parallel()

	db := testCatalog(t)

	for _, row := range []struct{ name, path string }{
		{"vendor", "a/vendor.png"},
		{"desert", "b/desert.png"},
		{"desert", "a/desert.png"},
	} {
		s := sprite.New(row.name, 4, 4, sprite.Blit2BPP, []byte{0x5a, 0x5a, 0xf0, 0xf0})
		_, err := db.Put(row.path, "cafe", s)
		require.NoError(t, err)
	}

	entries, err := db.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "desert", entries[0].Name)
	require.Equal(t, "a/desert.png", entries[0].Path)
	require.Equal(t, "desert", entries[1].Name)
	require.Equal(t, "b/desert.png", entries[1].Path)
	require.Equal(t, "vendor", entries[2].Name)
	require.Equal(t, "BLIT_2BPP", entries[0].Flags)

	// A name stored under several paths still resolves.
	s, err := db.Sprite("desert")
	require.NoError(t, err)
	require.NotNil(t, s)
}

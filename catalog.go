package png2src

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wasm4kit/png2src/sprite"
)

// A Catalog is an sqlite backed store of converted sprites, keyed by
// source path so that unchanged files can be skipped on the next
// indexing run.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens, creating if necessary, the catalog database at
// file.
func OpenCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL, path TEXT NOT NULL UNIQUE, sha1 TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, flags INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores a converted sprite under its source path and reports
// whether the row changed. A path whose stored checksum already equals
// sha is left alone.
func (c *Catalog) Put(path, sha string, s *sprite.Sprite) (bool, error) {
	var stored string
	switch err := c.db.QueryRow("SELECT sha1 FROM sprite WHERE path = ?", path).Scan(&stored); err {
	case sql.ErrNoRows:
	case nil:
		if stored == sha {
			return false, nil
		}
	default:
		return false, err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO sprite (name, path, sha1, width, height, flags, data) VALUES (?, ?, ?, ?, ?, ?, ?)", s.Name(), path, sha, s.Width(), s.Height(), uint32(s.Flags()), s.Data()); err != nil {
		return false, err
	}

	return true, nil
}

// Sprite looks up a stored sprite by name, returning nil without an
// error when the name is not in the catalog. Names are not unique
// across directories; the row with the lexically first path wins.
func (c *Catalog) Sprite(name string) (*sprite.Sprite, error) {
	var (
		width, height, flags uint32
		data                 []byte
	)
	switch err := c.db.QueryRow("SELECT width, height, flags, data FROM sprite WHERE name = ? ORDER BY path LIMIT 1", name).Scan(&width, &height, &flags, &data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return sprite.New(name, width, height, sprite.Flags(flags), data), nil
	default:
		return nil, err
	}
}

// An Entry is one catalog row without its pixel data.
type Entry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Flags  string `json:"flags"`
}

// Entries lists the catalog ordered by sprite name then path.
func (c *Catalog) Entries() ([]Entry, error) {
	rows, err := c.db.Query("SELECT name, path, width, height, flags FROM sprite ORDER BY name, path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			flags uint32
		)
		if err := rows.Scan(&e.Name, &e.Path, &e.Width, &e.Height, &flags); err != nil {
			return nil, err
		}
		e.Flags = sprite.Flags(flags).String()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

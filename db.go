package emojimosaic

import (
	"database/sql"
	"fmt"
	"image/color"

	_ "github.com/mattn/go-sqlite3"
)

// ColorDB remembers the representative color of each tile image, keyed by
// the SHA-1 of the file, so it needn't be recomputed on every run.
type ColorDB struct {
	db *sql.DB
}

func NewColorDB(file string) (*ColorDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS color (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, red INTEGER NOT NULL, green INTEGER NOT NULL, blue INTEGER NOT NULL, alpha INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &ColorDB{
		db: db,
	}, nil
}

func (db *ColorDB) Close() error {
	return db.db.Close()
}

// FindColorBySHA1 returns the color stored for sha. The second return value
// is false if there isn't one.
func (db *ColorDB) FindColorBySHA1(sha string) (color.NRGBA, bool, error) {
	var r, g, b, a uint8
	switch err := db.db.QueryRow("SELECT red, green, blue, alpha FROM color WHERE sha1 = ?", sha).Scan(&r, &g, &b, &a); err {
	case sql.ErrNoRows:
		return color.NRGBA{}, false, nil
	case nil:
		return color.NRGBA{R: r, G: g, B: b, A: a}, true, nil
	default:
		return color.NRGBA{}, false, err
	}
}

// AddColor stores c as the color for sha, replacing any existing entry.
func (db *ColorDB) AddColor(sha string, c color.NRGBA) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO color (sha1, red, green, blue, alpha) VALUES (?, ?, ?, ?, ?)", sha, c.R, c.G, c.B, c.A); err != nil {
		return err
	}
	return nil
}

// Length returns the number of colors stored.
func (db *ColorDB) Length() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM color").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

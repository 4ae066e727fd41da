// Package catalog holds the genre list offered when adding a book.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultOther is the catch-all genre of the built-in catalog
const DefaultOther = "Anderes"

var defaultGenres = []string{
	"Roman",
	"Krimi & Thriller",
	"Fantasy & Science-Fiction",
	"Historisch",
	"Liebesgeschichte",
	"Abenteuer",
	"Horror & Mystery",
	"Biografie & Memoiren",
	"Sachbuch",
	"Ratgeber",
	"Kinder- & Jugendbuch",
	"Poesie & Kurzgeschichten",
	"Gesellschaft & Politik",
	"Spiritualität & Religion",
	"Klassiker",
	DefaultOther,
}

// Catalog is an ordered genre list with one catch-all entry.
// Genres outside the list are still accepted as freeform values.
type Catalog struct {
	Genres []string `json:"genres" yaml:"genres"`
	Other  string   `json:"other" yaml:"other"`
}

// Default returns the built-in catalog
func Default() Catalog {
	return Catalog{
		Genres: append([]string{}, defaultGenres...),
		Other:  DefaultOther,
	}
}

// Contains reports whether genre is one of the catalog genres
func (c Catalog) Contains(genre string) bool {
	for _, g := range c.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Loader reads a catalog from a YAML file:
//
//	genres:
//	  - Roman
//	  - Krimi & Thriller
//	other: Anderes
type Loader struct {
	filePath string
}

// NewLoader creates a catalog loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and validates the catalog file
func (l *Loader) Load() (Catalog, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read genre file: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse genre yaml: %w", err)
	}

	return c.normalize()
}

// normalize trims and dedupes genres, and makes sure Other is listed last
func (c Catalog) normalize() (Catalog, error) {
	seen := make(map[string]struct{}, len(c.Genres))
	genres := make([]string, 0, len(c.Genres)+1)

	other := strings.TrimSpace(c.Other)
	for _, g := range c.Genres {
		g = strings.TrimSpace(g)
		if g == "" || g == other {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}

	if len(genres) == 0 {
		return Catalog{}, fmt.Errorf("genre file lists no genres")
	}
	if other == "" {
		other = DefaultOther
	}

	return Catalog{Genres: append(genres, other), Other: other}, nil
}

// Resolve returns the default catalog when path is empty,
// otherwise the catalog loaded from path.
func Resolve(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return NewLoader(path).Load()
}

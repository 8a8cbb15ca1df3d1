// Package reference provides the selectable country list and the static
// display data shown next to predictions.
package reference

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrLoad marks a reference dataset that cannot be read. Like a bad model
// bundle, it prevents startup.
var ErrLoad = errors.New("reference dataset unavailable")

// Source yields raw country values, possibly with blanks and duplicates.
type Source interface {
	Countries(ctx context.Context) ([]string, error)
	Describe() string
}

// Vocabulary is the subset of the encoder used for drift reporting.
type Vocabulary interface {
	Contains(name string) bool
}

// Catalog is the immutable reference data built at startup.
type Catalog struct {
	countries []string
	cities    []string
}

// NewCatalog de-duplicates and sorts countries. cities is kept as given.
func NewCatalog(countries, cities []string) (*Catalog, error) {
	seen := make(map[string]struct{}, len(countries))
	uniq := make([]string, 0, len(countries))
	for _, c := range countries {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		uniq = append(uniq, c)
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("%w: no countries", ErrLoad)
	}
	sort.Strings(uniq)

	cc := make([]string, len(cities))
	copy(cc, cities)
	return &Catalog{countries: uniq, cities: cc}, nil
}

// Load reads src and builds a catalog with the static display cities.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	raw, err := src.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, src.Describe(), err)
	}
	cat, err := NewCatalog(raw, displayCities)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Describe(), err)
	}
	return cat, nil
}

// Countries returns the sorted selectable countries.
func (c *Catalog) Countries() []string {
	out := make([]string, len(c.countries))
	copy(out, c.countries)
	return out
}

// Cities returns the static display list.
func (c *Catalog) Cities() []string {
	out := make([]string, len(c.cities))
	copy(out, c.cities)
	return out
}

// CityColumns splits the display list into two halves; the second half gets
// the extra entry when the length is odd.
func (c *Catalog) CityColumns() (left, right []string) {
	half := len(c.cities) / 2
	left = append([]string(nil), c.cities[:half]...)
	right = append([]string(nil), c.cities[half:]...)
	return left, right
}

// UnknownTo lists selectable countries that vocab cannot encode. Predictions
// for these always fail.
func (c *Catalog) UnknownTo(vocab Vocabulary) []string {
	var out []string
	for _, name := range c.countries {
		if !vocab.Contains(name) {
			out = append(out, name)
		}
	}
	return out
}

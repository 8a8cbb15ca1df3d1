package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	countries []string
	err       error
}

func (s stubSource) Countries(context.Context) ([]string, error) { return s.countries, s.err }
func (s stubSource) Describe() string                            { return "stub" }

type setVocab map[string]bool

func (v setVocab) Contains(name string) bool { return v[name] }

func TestNewCatalog(t *testing.T) {
	cat, err := NewCatalog([]string{"Germany", " Brazil ", "", "Germany", "Argentina"}, []string{"X", "X"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Argentina", "Brazil", "Germany"}, cat.Countries())
	assert.Equal(t, []string{"X", "X"}, cat.Cities())
}

func TestNewCatalogRequiresCountries(t *testing.T) {
	_, err := NewCatalog([]string{"", "  "}, nil)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestCityColumns(t *testing.T) {
	cat, err := NewCatalog([]string{"A"}, DisplayCities())
	require.NoError(t, err)

	left, right := cat.CityColumns()
	assert.Len(t, left, 43)
	assert.Len(t, right, 43)
	assert.Equal(t, "United States of America", left[0])
	assert.Equal(t, "Sudan", right[len(right)-1])

	odd, err := NewCatalog([]string{"A"}, []string{"a", "b", "c"})
	require.NoError(t, err)
	left, right = odd.CityColumns()
	assert.Equal(t, []string{"a"}, left)
	assert.Equal(t, []string{"b", "c"}, right)
}

func TestDisplayCitiesKeepsDuplicates(t *testing.T) {
	cities := DisplayCities()
	assert.Len(t, cities, 86)

	count := 0
	for _, c := range cities {
		if c == "Russia" {
			count++
		}
	}
	assert.Equal(t, 5, count)

	cities[0] = "mutated"
	assert.Equal(t, "United States of America", DisplayCities()[0])
}

func TestUnknownTo(t *testing.T) {
	cat, err := NewCatalog([]string{"Spain", "Monaco", "Italy"}, nil)
	require.NoError(t, err)

	unknown := cat.UnknownTo(setVocab{"Spain": true, "Italy": true})
	assert.Equal(t, []string{"Monaco"}, unknown)
}

func TestLoad(t *testing.T) {
	t.Run("source error", func(t *testing.T) {
		_, err := Load(context.Background(), stubSource{err: errors.New("connection refused")})
		assert.ErrorIs(t, err, ErrLoad)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := Load(context.Background(), stubSource{})
		assert.ErrorIs(t, err, ErrLoad)
	})

	t.Run("attaches display cities", func(t *testing.T) {
		cat, err := Load(context.Background(), stubSource{countries: []string{"Chile"}})
		require.NoError(t, err)
		assert.Len(t, cat.Cities(), 86)
	})
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	t.Run("reads country column", func(t *testing.T) {
		path := write("cities.csv", "City,Region,Country,AirQuality,WaterPollution\n"+
			"Berlin,,Germany,70.5,40.1\n"+
			"Munich,Bavaria,Germany,60,35\n"+
			"\"Abidjan\",Lagunes,Cote d'Ivoire,80,60\n")
		got, err := NewCSVSource(path).Countries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Germany", "Germany", "Cote d'Ivoire"}, got)
	})

	t.Run("byte order mark on header", func(t *testing.T) {
		path := write("bom.csv", "\ufeffCountry,City\nPeru,Lima\n")
		got, err := NewCSVSource(path).Countries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Peru"}, got)
	})

	t.Run("short rows are skipped", func(t *testing.T) {
		path := write("short.csv", "City,Country\nOslo,Norway\nNowhere\n")
		got, err := NewCSVSource(path).Countries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Norway"}, got)
	})

	t.Run("missing column", func(t *testing.T) {
		path := write("nocol.csv", "City,Nation\nOslo,Norway\n")
		_, err := NewCSVSource(path).Countries(context.Background())
		assert.ErrorContains(t, err, `no "Country" column`)
	})

	t.Run("empty file", func(t *testing.T) {
		path := write("empty.csv", "")
		_, err := NewCSVSource(path).Countries(context.Background())
		assert.ErrorContains(t, err, "empty csv")
	})

	t.Run("missing file fails catalog load", func(t *testing.T) {
		_, err := Load(context.Background(), NewCSVSource(filepath.Join(dir, "absent.csv")))
		assert.ErrorIs(t, err, ErrLoad)
		assert.True(t, strings.Contains(err.Error(), "absent.csv"))
	})
}

package templates

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/ruinadex/internal/domain/locale"
	"github.com/corey/ruinadex/locales"
)

func TestLoad_Embedded(t *testing.T) {
	b, err := Load(locales.FS, ".")
	require.NoError(t, err)

	s, ok := b.Lookup(locale.English, "collectability-collectable")
	require.True(t, ok)
	assert.Equal(t, "collectable", s)

	s, ok = b.Lookup(locale.Korean, "chapter-star-of-the-city")
	require.True(t, ok)
	assert.Equal(t, "도시의 별", s)

	_, ok = b.Lookup(locale.Japanese, "disambiguation-xiao-liu-section")
	assert.False(t, ok, "no fallback at this layer")
}

func TestLoad_EveryLocaleHasHeuristicKeys(t *testing.T) {
	b, err := Load(locales.FS, ".")
	require.NoError(t, err)

	for _, loc := range locale.All {
		for _, key := range b.Keys(locale.English) {
			if key == "disambiguation-xiao-liu-section" {
				continue
			}
			_, ok := b.Lookup(loc, key)
			assert.True(t, ok, "%s missing %s", loc, key)
		}
	}
}

func TestLoad_OptionalLocales(t *testing.T) {
	fsys := fstest.MapFS{
		"t/en/a.yaml": {Data: []byte("greeting: hello\n")},
	}
	b, err := Load(fsys, "t")
	require.NoError(t, err)
	_, ok := b.Lookup(locale.Korean, "greeting")
	assert.False(t, ok)
	assert.Equal(t, []string{"greeting"}, b.Keys(locale.English))
}

func TestLoad_EnglishRequired(t *testing.T) {
	fsys := fstest.MapFS{
		"t/ko/a.yaml": {Data: []byte("greeting: 안녕\n")},
	}
	_, err := Load(fsys, "t")
	assert.Error(t, err)
}

func TestLoad_DuplicateKey(t *testing.T) {
	fsys := fstest.MapFS{
		"t/en/a.yaml": {Data: []byte("greeting: hello\n")},
		"t/en/b.yaml": {Data: []byte("greeting: hi\n")},
	}
	_, err := Load(fsys, "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greeting")
	assert.Contains(t, err.Error(), "b.yaml")
}

func TestLoad_Malformed(t *testing.T) {
	fsys := fstest.MapFS{
		"t/en/a.yaml": {Data: []byte("- not\n- a map\n")},
	}
	_, err := Load(fsys, "t")
	assert.Error(t, err)
}

package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"librahub/internal/domain"
)

func TestCatalogETagTracksVisibleChanges(t *testing.T) {
	tools := []domain.Tool{
		{ID: "libraleads", Name: "LibraLeads", IsDefault: true},
		{ID: "tool_1_abcde", Name: "Timer", Content: "<title>Timer</title>"},
	}
	base := CatalogETag(nil, tools)
	assert.Len(t, base, 64)
	assert.Equal(t, base, CatalogETag(nil, tools))

	renamed := append([]domain.Tool(nil), tools...)
	renamed[1].Name = "Clock"
	assert.NotEqual(t, base, CatalogETag(nil, renamed))

	rewritten := append([]domain.Tool(nil), tools...)
	rewritten[1].Content = "<title>Timer</title><p>v2</p>"
	assert.NotEqual(t, base, CatalogETag(nil, rewritten))

	reordered := []domain.Tool{tools[1], tools[0]}
	assert.NotEqual(t, base, CatalogETag(nil, reordered))
}

func TestCatalogETagIgnoresTransientURLs(t *testing.T) {
	a := []domain.Tool{{ID: "x", Content: "c", ContentURL: "blob:/blob/1"}}
	b := []domain.Tool{{ID: "x", Content: "c", ContentURL: "blob:/blob/2"}}
	assert.Equal(t, CatalogETag(nil, a), CatalogETag(nil, b))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHash(""))
}

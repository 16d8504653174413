package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"librahub/internal/domain"
)

// catalogEntry is the part of a tool that changes what the catalog shows or hosts.
type catalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Path        string `json:"path"`
	IsDefault   bool   `json:"isDefault"`
	DateUpdated string `json:"dateUpdated,omitempty"`
	ContentHash string `json:"contentHash,omitempty"`
}

// CatalogETag returns an ETag for a tool list and logs on failure.
func CatalogETag(logger *zap.Logger, tools []domain.Tool) string {
	return hashWithLogger(logger, "catalog", func() (string, error) {
		entries := make([]catalogEntry, 0, len(tools))
		for _, tool := range tools {
			entry := catalogEntry{
				ID:          tool.ID,
				Name:        tool.Name,
				Icon:        tool.Icon,
				Description: tool.Description,
				Path:        tool.Path,
				IsDefault:   tool.IsDefault,
				DateUpdated: tool.DateUpdated,
			}
			if tool.Content != "" {
				entry.ContentHash = ContentHash(tool.Content)
			}
			entries = append(entries, entry)
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return "", err
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	})
}

// ContentHash returns the hex sha256 of a tool document.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func hashWithLogger(logger *zap.Logger, label string, fn func() (string, error)) string {
	etag, err := fn()
	if err != nil {
		if logger != nil {
			logger.Warn(fmt.Sprintf("%s hash failed", label), zap.Error(err))
		}
		return ""
	}
	return etag
}

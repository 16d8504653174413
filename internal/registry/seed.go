package registry

import "librahub/internal/domain"

// DefaultSeed returns the built-in tools written on first run.
func DefaultSeed() []domain.Tool {
	return []domain.Tool{
		{
			ID:          domain.LibraLeadsToolID,
			Name:        "LibraLeads",
			Icon:        "📊",
			Description: "CRM & Lead Management",
			Path:        "tools/libraleads.html",
			IsDefault:   true,
		},
	}
}

func cloneTools(tools []domain.Tool) []domain.Tool {
	if tools == nil {
		return nil
	}
	out := make([]domain.Tool, len(tools))
	copy(out, tools)
	return out
}

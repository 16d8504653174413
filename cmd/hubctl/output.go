package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"librahub/internal/domain"
	"librahub/internal/infra/hashutil"
)

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printTools(w io.Writer, tools []domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(w, stripContent(tools))
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tADDED")
	for _, tool := range tools {
		kind := "custom"
		if tool.IsDefault {
			kind = "built-in"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", tool.ID, tool.Icon, tool.Name, kind, tool.DateAdded)
	}
	return tw.Flush()
}

func printTool(w io.Writer, tool domain.Tool, jsonOutput bool) error {
	tool.Content = ""
	tool.ContentURL = ""
	if jsonOutput {
		return writeJSON(w, tool)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", tool.ID)
	fmt.Fprintf(tw, "name:\t%s\n", tool.Name)
	fmt.Fprintf(tw, "icon:\t%s\n", tool.Icon)
	fmt.Fprintf(tw, "description:\t%s\n", tool.Description)
	fmt.Fprintf(tw, "path:\t%s\n", tool.Path)
	fmt.Fprintf(tw, "built-in:\t%t\n", tool.IsDefault)
	if tool.DateAdded != "" {
		fmt.Fprintf(tw, "added:\t%s\n", tool.DateAdded)
	}
	if tool.DateUpdated != "" {
		fmt.Fprintf(tw, "updated:\t%s\n", tool.DateUpdated)
	}
	return tw.Flush()
}

func stripContent(tools []domain.Tool) []domain.Tool {
	out := make([]domain.Tool, len(tools))
	for i, tool := range tools {
		tool.Content = ""
		tool.ContentURL = ""
		out[i] = tool
	}
	return out
}

// exportRecord is the file-format neutral shape of one tool.
type exportRecord struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Icon        string `json:"icon" yaml:"icon" toml:"icon"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Path        string `json:"path" yaml:"path" toml:"path"`
	IsDefault   bool   `json:"isDefault" yaml:"isDefault" toml:"isDefault"`
	Content     string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	DateAdded   string `json:"dateAdded,omitempty" yaml:"dateAdded,omitempty" toml:"dateAdded,omitempty"`
	DateUpdated string `json:"dateUpdated,omitempty" yaml:"dateUpdated,omitempty" toml:"dateUpdated,omitempty"`
}

type exportDocument struct {
	ETag  string         `json:"etag" yaml:"etag" toml:"etag"`
	Tools []exportRecord `json:"tools" yaml:"tools" toml:"tools"`
}

func exportTools(w io.Writer, tools []domain.Tool, format string) error {
	doc := exportDocument{
		ETag:  hashutil.CatalogETag(nil, tools),
		Tools: make([]exportRecord, 0, len(tools)),
	}
	for _, tool := range tools {
		doc.Tools = append(doc.Tools, exportRecord{
			ID:          tool.ID,
			Name:        tool.Name,
			Icon:        tool.Icon,
			Description: tool.Description,
			Path:        tool.Path,
			IsDefault:   tool.IsDefault,
			Content:     tool.Content,
			DateAdded:   tool.DateAdded,
			DateUpdated: tool.DateUpdated,
		})
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return writeJSON(w, doc)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(doc)
	default:
		return exitError{code: exitCodeUsage, message: fmt.Sprintf("unknown export format %q", format)}
	}
}

package domain

import (
	"errors"
	"io"
)

// Tool is one installed entry of the hub catalog.
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	Path        string `json:"path"`
	IsDefault   bool   `json:"isDefault"`
	ContentURL  string `json:"contentUrl,omitempty"`
	Content     string `json:"content,omitempty"`
	DateAdded   string `json:"dateAdded,omitempty"`
	DateUpdated string `json:"dateUpdated,omitempty"`
}

// Removable reports whether the user may remove or replace the tool.
func (t Tool) Removable() bool {
	return !t.IsDefault
}

// ToolStats summarizes the registry composition.
type ToolStats struct {
	Total   int `json:"totalTools"`
	Default int `json:"defaultTools"`
	Custom  int `json:"customTools"`
}

// ToolView describes what the display surface should render for a selected tool.
type ToolView struct {
	ToolID string `json:"toolId"`
	Title  string `json:"title"`
	Source string `json:"source"`
	// Builtin sources are relative resource paths; others are data: or blob URLs.
	Builtin bool `json:"builtin"`
}

// FileInput is a single file handed to the registry by a picker, the inbox or the CLI.
type FileInput struct {
	Name      string
	MediaType string
	Reader    io.Reader
}

// StatusLevel classifies a user-visible status message.
type StatusLevel string

const (
	StatusInfo  StatusLevel = "info"
	StatusError StatusLevel = "error"
)

// FilePurpose tells the picker why a file is requested.
type FilePurpose string

const (
	FilePurposeAdd     FilePurpose = "add"
	FilePurposeReplace FilePurpose = "replace"
)

var ErrToolNotFound = errors.New("tool not found")
var ErrBuiltinTool = errors.New("built-in tools cannot be modified")
var ErrUnsupportedMediaType = errors.New("only html files are supported")
var ErrNoPendingReplace = errors.New("no tool selected for replacement")
var ErrCorruptRegistry = errors.New("persisted registry is corrupt")
var ErrInvalidRequest = errors.New("invalid request")

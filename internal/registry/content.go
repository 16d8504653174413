package registry

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"librahub/internal/domain"
)

const (
	maxToolSize   = 16 << 20
	dataURLPrefix = "data:text/html;charset=utf-8;base64,"

	// PermissivePolicy replaces any Content-Security-Policy declared by an uploaded document
	// so it can render from a data: or blob: origin inside the hub frame.
	PermissivePolicy = "default-src * data: blob: 'unsafe-inline' 'unsafe-eval'; " +
		"script-src * data: blob: 'unsafe-inline' 'unsafe-eval'; " +
		"style-src * data: blob: 'unsafe-inline'; " +
		"img-src * data: blob:; frame-src * data: blob:"
)

var (
	cspMetaPattern = regexp.MustCompile(`(?is)<meta\b[^>]*http-equiv\s*=\s*["']?content-security-policy["']?[^>]*>`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// prepared is the result of running an uploaded file through the add pipeline.
type prepared struct {
	name       string
	path       string
	content    string
	contentURL string
}

func isHTMLMediaType(mediaType string) bool {
	parsed, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return parsed == domain.HTMLMediaType
}

func prepareFile(ctx context.Context, input domain.FileInput) (prepared, error) {
	if !isHTMLMediaType(input.MediaType) {
		return prepared{}, domain.E(domain.CodeInvalidArgument, "prepare tool", fmt.Sprintf("unsupported media type %q", input.MediaType), domain.ErrUnsupportedMediaType)
	}
	if input.Reader == nil {
		return prepared{}, domain.E(domain.CodeInvalidArgument, "prepare tool", "file content is required", domain.ErrInvalidRequest)
	}

	raw, err := readContent(ctx, input.Reader)
	if err != nil {
		return prepared{}, err
	}

	content := string(raw)
	name := extractTitle(content)
	if name == "" {
		name = nameFromFilename(input.Name)
	}
	return prepared{
		name:       name,
		path:       filepath.Base(input.Name),
		content:    content,
		contentURL: encodeDataURL(RelaxCSP(content)),
	}, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readContent(ctx context.Context, r io.Reader) ([]byte, error) {
	limited := io.LimitReader(ctxReader{ctx: ctx, r: r}, maxToolSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.Wrap(domain.CodeInternal, "read tool content", err)
	}
	if len(data) > maxToolSize {
		return nil, domain.E(domain.CodeInvalidArgument, "read tool content", "file exceeds 16 MiB", domain.ErrInvalidRequest)
	}
	return data, nil
}

// extractTitle returns the collapsed text of the first <title> element, or "".
func extractTitle(content string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if atom.Lookup(name) != atom.Title {
				continue
			}
			var text bytes.Buffer
			for {
				tt := tokenizer.Next()
				if tt == html.TextToken {
					text.Write(tokenizer.Text())
					continue
				}
				break
			}
			return strings.TrimSpace(whitespace.ReplaceAllString(text.String(), " "))
		}
	}
}

func nameFromFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	lower := strings.ToLower(base)
	for _, ext := range []string{".html", ".htm"} {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// RelaxCSP rewrites every Content-Security-Policy meta declaration to PermissivePolicy.
// Documents without one are returned unchanged.
func RelaxCSP(content string) string {
	replacement := `<meta http-equiv="Content-Security-Policy" content="` + PermissivePolicy + `">`
	return cspMetaPattern.ReplaceAllLiteralString(content, replacement)
}

func encodeDataURL(content string) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString([]byte(content))
}

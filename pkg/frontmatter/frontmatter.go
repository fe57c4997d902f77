// Package frontmatter extracts and decodes the leading YAML metadata block
// of a Markdown document. A document without a frontmatter block is valid
// and yields an empty field map; a block that is opened but never closed is
// a parse error for that document.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMalformedFrontMatter indicates a frontmatter block that was opened with
// a delimiter line but never terminated.
var ErrMalformedFrontMatter = errors.New("frontmatter delimiter opened but never closed")

// UnknownFieldError is returned in strict mode when the frontmatter contains
// keys outside the known set.
type UnknownFieldError struct {
	Fields []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown frontmatter fields: %s", strings.Join(e.Fields, ", "))
}

// Document is the result of splitting a Markdown document into its
// frontmatter fields and remaining body.
type Document struct {
	Fields map[string]any
	Body   string
}

// Option configures parsing behavior
type Option func(*config)

type config struct {
	knownFields map[string]bool
}

// WithKnownFields enables strict mode: any frontmatter key outside the given
// set fails parsing with UnknownFieldError.
func WithKnownFields(fields ...string) Option {
	return func(c *config) {
		c.knownFields = make(map[string]bool, len(fields))
		for _, f := range fields {
			c.knownFields[f] = true
		}
	}
}

// Parse splits content into frontmatter fields and body. The default mode is
// permissive: unrecognized keys are carried through untouched.
func Parse(content string, opts ...Option) (*Document, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	body, block, hasBlock, err := splitBody(content)
	if err != nil {
		return nil, err
	}
	if !hasBlock {
		return &Document{Fields: map[string]any{}, Body: body}, nil
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		// goldmark-meta yields nil both for an empty block and for broken
		// YAML; reparse the raw block to tell the two apart.
		parsed := map[string]any{}
		if err := yaml.Unmarshal([]byte(block), &parsed); err != nil {
			return nil, errors.Wrap(ErrMalformedFrontMatter, err.Error())
		}
		metaData = parsed
	}

	fields := normalizeMap(metaData)

	if cfg.knownFields != nil {
		var unknown []string
		for key := range fields {
			if !cfg.knownFields[key] {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &UnknownFieldError{Fields: unknown}
		}
	}

	return &Document{Fields: fields, Body: body}, nil
}

// Decode maps parsed frontmatter fields onto a typed struct using
// mapstructure tags.
func Decode(fields map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create frontmatter decoder")
	}
	if err := decoder.Decode(fields); err != nil {
		return errors.Wrap(err, "failed to decode frontmatter fields")
	}
	return nil
}

// splitBody strips the frontmatter block, returning the body, the raw block
// content, and whether a block was present. An opened-but-unterminated block
// is a parse error.
func splitBody(content string) (string, string, bool, error) {
	if !strings.HasPrefix(content, delimiter) {
		return content, "", false, nil
	}
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.TrimSpace(firstLine) != delimiter {
		return content, "", false, nil
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return "", "", false, errors.WithStack(ErrMalformedFrontMatter)
	}

	body := strings.TrimLeft(strings.Join(lines[end+1:], "\n"), "\n")
	block := strings.Join(lines[1:end], "\n")
	return body, block, true, nil
}

// normalizeMap converts the yaml.v2 shaped metadata returned by goldmark-meta
// (map[interface{}]interface{} for nested mappings) into string-keyed maps.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, nested := range val {
			m[fmt.Sprintf("%v", k)] = normalizeValue(nested)
		}
		return m
	case map[string]any:
		return normalizeMap(val)
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = normalizeValue(item)
		}
		return s
	default:
		return v
	}
}

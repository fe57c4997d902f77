package skillset

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// parseMarkdown parses a frontmatter-free Markdown body into a goldmark AST.
func parseMarkdown(body string) (ast.Node, []byte) {
	source := []byte(body)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))
	return doc, source
}

// nodeText flattens the inline text of a node, dropping markup. Strong and
// emphasis wrappers contribute their inner text only.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// codeBlockText extracts the literal content of a fenced or indented code block.
func codeBlockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// slugify converts a heading title into its GitHub-style anchor: lowercase,
// spaces to hyphens, punctuation dropped.
func slugify(title string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-':
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// countLines reports the number of lines in raw document text. A trailing
// newline does not start an extra line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

const (
	incorrectMarker = "incorrect"
	correctMarker   = "correct"
)

// exampleMarker recognizes the "Incorrect:" / "Correct:" paragraphs that
// introduce example code blocks. Returns "" for ordinary paragraphs.
func exampleMarker(text string) string {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	trimmed = strings.TrimSuffix(trimmed, ":")
	switch trimmed {
	case incorrectMarker, "incorrect example", "bad", "don't":
		return incorrectMarker
	case correctMarker, "correct example", "good", "do":
		return correctMarker
	}
	return ""
}

package skillset

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark/ast"

	"github.com/agentskills/skillcheck/pkg/frontmatter"
)

const (
	abstractHeading = "abstract"
	tocHeading      = "table of contents"
)

// ParseGuide parses an AGENTS.md document. The document is segmented by its
// level-2 headings: "Abstract" and "Table of Contents" are structural, every
// other level-2 heading opens a rule section.
func ParseGuide(content string) (*Guide, error) {
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse guide frontmatter")
	}

	guide := &Guide{Lines: countLines(content)}

	root, source := parseMarkdown(doc.Body)

	var section *Section
	var abstract []string
	inAbstract := false
	inTOC := false
	pending := ""

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok && heading.Level <= 2 {
			section = nil
			inAbstract = false
			inTOC = false
			pending = ""

			if heading.Level != 2 {
				continue
			}

			title := strings.TrimSpace(nodeText(heading, source))
			switch strings.ToLower(title) {
			case abstractHeading:
				inAbstract = true
			case tocHeading:
				inTOC = true
			default:
				section = &Section{Title: title, Anchor: slugify(title)}
				guide.Sections = append(guide.Sections, section)
			}
			continue
		}

		switch {
		case inAbstract:
			if para, ok := node.(*ast.Paragraph); ok {
				abstract = append(abstract, strings.TrimSpace(nodeText(para, source)))
			}
		case inTOC:
			if list, ok := node.(*ast.List); ok {
				guide.TOC = append(guide.TOC, tocEntries(list, source)...)
			}
		case section != nil:
			pending = applySectionNode(section, node, source, pending)
		}
	}

	guide.Abstract = strings.Join(abstract, "\n\n")
	return guide, nil
}

// tocEntries extracts table-of-contents entries from a list node. A linked
// item contributes its link target; a bare item falls back to the slug of its
// own text.
func tocEntries(list *ast.List, source []byte) []TOCEntry {
	var entries []TOCEntry
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		link := firstLink(item)
		if link != nil {
			entries = append(entries, TOCEntry{
				Title:  strings.TrimSpace(nodeText(link, source)),
				Anchor: strings.TrimPrefix(string(link.Destination), "#"),
			})
			continue
		}
		title := strings.TrimSpace(nodeText(item, source))
		if title == "" {
			continue
		}
		entries = append(entries, TOCEntry{Title: title, Anchor: slugify(title)})
	}
	return entries
}

func firstLink(n ast.Node) *ast.Link {
	var found *ast.Link
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := child.(*ast.Link); ok {
			found = link
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// applySectionNode folds one block node into the current rule section and
// returns the updated pending example marker.
func applySectionNode(section *Section, node ast.Node, source []byte, pending string) string {
	switch block := node.(type) {
	case *ast.Paragraph:
		text := nodeText(block, source)
		if marker := exampleMarker(text); marker != "" {
			return marker
		}
		for _, line := range strings.Split(text, "\n") {
			if value, ok := strings.CutPrefix(line, "Impact:"); ok {
				section.Impact, section.ImpactKnown = ParseImpact(value)
			} else if value, ok := strings.CutPrefix(line, "Tags:"); ok {
				section.Tags = splitTags(value)
			}
		}
	case *ast.FencedCodeBlock:
		assignExample(section, pending, codeBlockText(block, source))
		return ""
	case *ast.CodeBlock:
		assignExample(section, pending, codeBlockText(block, source))
		return ""
	}
	return pending
}

func assignExample(section *Section, pending, code string) {
	switch pending {
	case incorrectMarker:
		section.Incorrect = code
	case correctMarker:
		section.Correct = code
	}
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

package skillset

import (
	"github.com/pkg/errors"
	"github.com/yuin/goldmark/ast"

	"github.com/agentskills/skillcheck/pkg/frontmatter"
)

// ruleMeta is the frontmatter shape of a standalone rule file.
type ruleMeta struct {
	Title             string   `mapstructure:"title"`
	Impact            string   `mapstructure:"impact"`
	ImpactDescription string   `mapstructure:"impactDescription"`
	Tags              []string `mapstructure:"tags"`
}

var ruleKnownFields = []string{"title", "impact", "impactDescription", "tags"}

// ParseRuleFile parses one rules/*.md document. The file name is kept
// relative to the skill directory so findings can point at it.
func ParseRuleFile(file, content string, strict bool) (*RuleFile, error) {
	var opts []frontmatter.Option
	if strict {
		opts = append(opts, frontmatter.WithKnownFields(ruleKnownFields...))
	}

	doc, err := frontmatter.Parse(content, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse rule file '%s'", file)
	}

	var meta ruleMeta
	if err := frontmatter.Decode(doc.Fields, &meta); err != nil {
		return nil, errors.Wrapf(err, "failed to decode rule file '%s'", file)
	}

	rule := &RuleFile{
		File:              file,
		Title:             meta.Title,
		ImpactDescription: meta.ImpactDescription,
		Tags:              meta.Tags,
	}
	rule.Impact, rule.ImpactKnown = ParseImpact(meta.Impact)
	rule.Incorrect, rule.Correct = extractExamples(doc.Body)
	return rule, nil
}

// extractExamples scans a document body for the incorrect/correct example
// convention: a marker paragraph followed by a code block.
func extractExamples(body string) (incorrect, correct string) {
	root, source := parseMarkdown(body)

	pending := ""
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch block := node.(type) {
		case *ast.Paragraph:
			if marker := exampleMarker(nodeText(block, source)); marker != "" {
				pending = marker
			}
		case *ast.Heading:
			if marker := exampleMarker(nodeText(block, source)); marker != "" {
				pending = marker
			}
		case *ast.FencedCodeBlock:
			code := codeBlockText(block, source)
			switch pending {
			case incorrectMarker:
				incorrect = code
			case correctMarker:
				correct = code
			}
			pending = ""
		case *ast.CodeBlock:
			code := codeBlockText(block, source)
			switch pending {
			case incorrectMarker:
				incorrect = code
			case correctMarker:
				correct = code
			}
			pending = ""
		}
	}
	return incorrect, correct
}

package sections

import (
	"regexp"
	"strings"

	"github.com/dgallion1/coredoc/internal/doctree"
)

const (
	// IntroTitle names content that appears before the first heading.
	IntroTitle = "Introduction"
	// FallbackTitle names the single section produced for headingless,
	// contentless input.
	FallbackTitle = "Main Content"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\r]+`)
	blankLineRun    = regexp.MustCompile(`\n{3,}`)
)

// Normalize collapses whitespace runs inside lines and blank-line runs
// between them. Line breaks are kept so headings stay detectable.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

type headingRule struct {
	style   doctree.HeadingStyle
	pattern *regexp.Regexp
}

// Tried in order; the first match wins.
var headingRules = []headingRule{
	{doctree.StyleMarkdown, regexp.MustCompile(`^#{1,6}\s+(.+)$`)},
	{doctree.StyleCaps, regexp.MustCompile(`^([A-Z][A-Z\s]+)$`)},
	{doctree.StyleNumbered, regexp.MustCompile(`^(\d+\.?\s+.+)$`)},
	{doctree.StyleRoman, regexp.MustCompile(`^([IVX]+\.\s+.+)$`)},
}

// MatchHeading classifies a single line. It returns the heading title, its
// level and style, or ok=false for body text.
func MatchHeading(line string) (title string, level int, style doctree.HeadingStyle, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, rule := range headingRules {
		m := rule.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		return strings.TrimSpace(m[1]), headingLevel(trimmed, rule.style), rule.style, true
	}
	return "", 0, doctree.StyleNone, false
}

// headingLevel maps a heading line to a level on its style's own scale.
// The scales are not comparable across styles.
func headingLevel(line string, style doctree.HeadingStyle) int {
	switch style {
	case doctree.StyleMarkdown:
		// Every '#' on the line counts, including ones inside the title.
		return strings.Count(line, "#") - 1
	case doctree.StyleCaps:
		return 1
	case doctree.StyleNumbered:
		return min(strings.Count(line, "."), 3)
	case doctree.StyleRoman:
		return 2
	}
	return 0
}

// Extract scans normalized text into leveled sections and arranges them
// into an outline.
func Extract(text string) *doctree.Outline {
	lines := strings.Split(text, "\n")

	var flat []doctree.Section
	current := doctree.Section{Title: IntroTitle}

	for _, line := range lines {
		if title, level, style, ok := MatchHeading(line); ok {
			// A heading with no body of its own is dropped.
			if len(current.Lines) > 0 {
				flat = append(flat, current)
			}
			current = doctree.Section{Title: title, Level: level, Style: style}
			continue
		}
		if strings.TrimSpace(line) != "" {
			current.Lines = append(current.Lines, line)
		}
	}
	if len(current.Lines) > 0 {
		flat = append(flat, current)
	}

	if len(flat) == 0 {
		flat = []doctree.Section{{Title: FallbackTitle, Lines: lines}}
	}

	return BuildHierarchy(flat)
}

// BuildHierarchy nests a flat, leveled section list: each section becomes a
// child of the nearest preceding section with a strictly lower level, or a
// root when there is none.
func BuildHierarchy(flat []doctree.Section) *doctree.Outline {
	out := &doctree.Outline{Sections: flat}
	var stack []int

	for i := range out.Sections {
		level := out.Sections[i].Level
		for len(stack) > 0 && out.Sections[stack[len(stack)-1]].Level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			out.Sections[parent].Children = append(out.Sections[parent].Children, i)
		} else {
			out.Roots = append(out.Roots, i)
		}
		stack = append(stack, i)
	}

	return out
}

package validator

import "strings"

// lineKind classifies one physical line of report text.
type lineKind int

const (
	linePlain lineKind = iota
	lineBlank
	lineHeader
	lineListItem // top-level "- " item
	lineSubItem  // indented continuation of a list item
)

type line struct {
	text string
	kind lineKind
}

// parseLines splits text into classified lines.
func parseLines(text string) []line {
	raw := strings.Split(text, "\n")
	lines := make([]line, len(raw))
	for i, s := range raw {
		lines[i] = line{text: s, kind: classify(s)}
	}
	return lines
}

func classify(s string) lineKind {
	trimmed := strings.TrimSpace(s)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "#"):
		return lineHeader
	case strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* "):
		return lineListItem
	case len(s) > len(trimmed) && strings.HasPrefix(trimmed, "-"):
		return lineSubItem
	default:
		return linePlain
	}
}

// blockKind classifies a group of lines treated as one unit.
type blockKind int

const (
	blockOther    blockKind = iota
	blockListItem           // one "- " item plus its indented continuation
)

// block is the atomic unit the validator accepts or rejects: either a
// list item with its sub-lines, or a passthrough run of other lines.
type block struct {
	kind    blockKind
	lines   []line
	dropped bool
}

func (b *block) text() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// annotate appends suffix after every occurrence of code in the block,
// skipping occurrences that already carry an annotation.
func (b *block) annotate(code, suffix string) {
	for i := range b.lines {
		b.lines[i].text = annotateLine(b.lines[i].text, code, suffix)
	}
}

func annotateLine(s, code, suffix string) string {
	var out strings.Builder
	rest := s
	for {
		idx := strings.Index(rest, code)
		if idx < 0 {
			out.WriteString(rest)
			return out.String()
		}
		// Embedded in a longer number: not a mention, keep scanning.
		before := byte(0)
		if idx > 0 {
			before = rest[idx-1]
		}
		after := byte(0)
		if idx+len(code) < len(rest) {
			after = rest[idx+len(code)]
		}
		if isDigitOrDot(before) || isDigitOrDot(after) {
			out.WriteString(rest[:idx+len(code)])
			rest = rest[idx+len(code):]
			continue
		}

		out.WriteString(rest[:idx+len(code)])
		rest = rest[idx+len(code):]
		if !strings.HasPrefix(rest, "（现价") {
			out.WriteString(suffix)
		}
	}
}

// groupBlocks partitions lines into validation blocks. A list-item
// block runs from its "- " line through to the next list item, header,
// or blank line; everything else passes through untouched.
func groupBlocks(lines []line) []*block {
	var blocks []*block
	i := 0
	for i < len(lines) {
		if lines[i].kind != lineListItem {
			b := &block{kind: blockOther}
			for i < len(lines) && lines[i].kind != lineListItem {
				b.lines = append(b.lines, lines[i])
				i++
			}
			blocks = append(blocks, b)
			continue
		}

		b := &block{kind: blockListItem, lines: []line{lines[i]}}
		i++
		for i < len(lines) && lines[i].kind == lineSubItem {
			b.lines = append(b.lines, lines[i])
			i++
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// serialize re-joins the surviving blocks.
func serialize(blocks []*block) string {
	var parts []string
	for _, b := range blocks {
		if b.dropped {
			continue
		}
		for _, l := range b.lines {
			parts = append(parts, l.text)
		}
	}
	return strings.Join(parts, "\n")
}

// dropEmptyHeaders removes headers whose section (up to the next header
// of the same or a higher level) no longer contains any content. Runs
// until stable so parents of emptied subsections are removed too.
func dropEmptyHeaders(text string) string {
	lines := strings.Split(text, "\n")
	for {
		kept, changed := dropEmptyHeadersOnce(lines)
		if !changed {
			return strings.Join(kept, "\n")
		}
		lines = kept
	}
}

func dropEmptyHeadersOnce(lines []string) ([]string, bool) {
	var kept []string
	changed := false
	for i := 0; i < len(lines); i++ {
		s := lines[i]
		trimmed := strings.TrimSpace(s)
		if !strings.HasPrefix(trimmed, "#") {
			kept = append(kept, s)
			continue
		}

		level := headerLevel(trimmed)
		hasContent := false
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if strings.HasPrefix(t, "#") {
				if headerLevel(t) <= level {
					break
				}
				continue
			}
			if t != "" {
				hasContent = true
				break
			}
		}
		if hasContent {
			kept = append(kept, s)
			continue
		}

		// Drop the header and the blanks directly beneath it.
		changed = true
		for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
			i++
		}
	}
	return kept, changed
}

func headerLevel(s string) int {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	return n
}

package markdown

import (
	"html"
	"regexp"
	"strings"
)

// BlockKind tags a parsed content block.
type BlockKind int

const (
	BlockPlain BlockKind = iota
	BlockToggle
	BlockColumns
	BlockCallout
)

// Block is one span of project Markdown after block-level parsing. Plain
// blocks carry untouched Markdown; the custom kinds carry their extracted
// bodies with the historical pipe quoting already stripped.
type Block struct {
	Kind    BlockKind
	Title   string   // toggle summary text
	Type    string   // callout type, used verbatim as a CSS class suffix
	Body    string   // plain / toggle / callout content
	Columns []string // one entry per [[column]] segment
}

var (
	reToggleOpen  = regexp.MustCompile(`^\[\[toggle\s*\|\s*(.+?)\s*\]\]\s*$`)
	reCalloutOpen = regexp.MustCompile(`^\[\[callout\s*\|\s*(\w+)\s*\]\]\s*$`)
)

const (
	columnsOpen  = "[[columns]]"
	columnsClose = "[[/columns]]"
	columnMark   = "[[column]]"
)

// Parse splits src into a flat sequence of blocks in a single pass. Both the
// modern ([[columns]]...[[/columns]]) and the legacy pipe-quoted columns
// syntax feed the same BlockColumns node; a legacy block with no closing tag
// ends at the next top-level marker, heading, or end of input.
func Parse(src string) []Block {
	lines := strings.Split(src, "\n")

	var blocks []Block
	var plain []string
	flushPlain := func() {
		if len(plain) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(plain, "\n"))
		plain = plain[:0]
		if body != "" {
			blocks = append(blocks, Block{Kind: BlockPlain, Body: body})
		}
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(strings.TrimRight(lines[i], "\r"))

		switch {
		case reToggleOpen.MatchString(trimmed):
			flushPlain()
			m := reToggleOpen.FindStringSubmatch(trimmed)
			body, rest := consumeQuoted(lines, i+1)
			i = rest - 1
			blocks = append(blocks, Block{Kind: BlockToggle, Title: m[1], Body: body})

		case reCalloutOpen.MatchString(trimmed):
			flushPlain()
			m := reCalloutOpen.FindStringSubmatch(trimmed)
			body, rest := consumeQuoted(lines, i+1)
			i = rest - 1
			blocks = append(blocks, Block{Kind: BlockCallout, Type: m[1], Body: body})

		case strings.HasPrefix(trimmed, columnsOpen):
			flushPlain()
			var content []string
			closed := false
			if rest := strings.TrimSpace(trimmed[len(columnsOpen):]); rest != "" {
				if idx := strings.Index(rest, columnsClose); idx >= 0 {
					content = append(content, rest[:idx])
					closed = true
				} else {
					content = append(content, rest)
				}
			}
			for !closed && i+1 < len(lines) {
				next := strings.TrimSpace(strings.TrimRight(lines[i+1], "\r"))
				if idx := strings.Index(next, columnsClose); idx >= 0 {
					content = append(content, next[:idx])
					i++
					closed = true
					break
				}
				if isTopLevelMarker(next) || strings.HasPrefix(next, "#") {
					break
				}
				content = append(content, lines[i+1])
				i++
			}
			blocks = append(blocks, Block{Kind: BlockColumns, Columns: splitColumns(strings.Join(content, "\n"))})

		default:
			plain = append(plain, lines[i])
		}
	}
	flushPlain()
	return blocks
}

// consumeQuoted gathers the pipe-prefixed body lines following a toggle or
// callout opener, returning the stripped body and the index of the first
// line not consumed.
func consumeQuoted(lines []string, start int) (string, int) {
	i := start
	var body []string
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
		body = append(body, lines[i])
		i++
	}
	return StripPipes(strings.Join(body, "\n")), i
}

// isTopLevelMarker reports whether a line opens a new custom block.
// [[column]] separators are interior and do not count.
func isTopLevelMarker(line string) bool {
	return strings.HasPrefix(line, "[[toggle") ||
		strings.HasPrefix(line, "[[callout") ||
		strings.HasPrefix(line, columnsOpen)
}

// splitColumns cuts block content on [[column]] markers. The segment before
// the first marker is discarded; each remaining segment becomes one column.
func splitColumns(content string) []string {
	segments := strings.Split(content, columnMark)
	cols := make([]string, 0, len(segments))
	for _, seg := range segments[1:] {
		cols = append(cols, StripPipes(seg))
	}
	return cols
}

// StripPipes recovers prose from the historical pipe-quoted format: leading
// and trailing pipes (with adjacent whitespace) are removed from every line,
// pipe-only lines are dropped, and the result is trimmed as a whole.
func StripPipes(s string) string {
	var out []string
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(raw)
		hadPipe := strings.Contains(line, "|")
		for strings.HasPrefix(line, "|") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "|"))
		}
		for strings.HasSuffix(line, "|") {
			line = strings.TrimSpace(strings.TrimSuffix(line, "|"))
		}
		if line == "" && hadPipe {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// renderBlock converts one block to HTML, rendering its body as Markdown.
func renderBlock(b *strings.Builder, blk Block) error {
	switch blk.Kind {
	case BlockToggle:
		body, err := ToHTML(blk.Body)
		if err != nil {
			return err
		}
		b.WriteString(`<details class="toggle"><summary>`)
		b.WriteString(html.EscapeString(blk.Title))
		b.WriteString(`</summary><div class="toggle-content">`)
		b.WriteString(body)
		b.WriteString(`</div></details>`)
	case BlockColumns:
		b.WriteString(`<div class="content-columns">`)
		for _, col := range blk.Columns {
			inner, err := ToHTML(col)
			if err != nil {
				return err
			}
			b.WriteString(`<div class="content-column">`)
			b.WriteString(inner)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	case BlockCallout:
		body, err := ToHTML(blk.Body)
		if err != nil {
			return err
		}
		b.WriteString(`<div class="content-callout-`)
		b.WriteString(blk.Type)
		b.WriteString(`">`)
		b.WriteString(body)
		b.WriteString(`</div>`)
	default:
		body, err := ToHTML(blk.Body)
		if err != nil {
			return err
		}
		b.WriteString(body)
	}
	return nil
}

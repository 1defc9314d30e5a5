// ABOUTME: Renders entry markdown as terminal text
// ABOUTME: Walks a goldmark AST and styles inline spans with fatih/color

package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	parserOnce sync.Once
	parser     goldmark.Markdown
)

func markdown() goldmark.Markdown {
	parserOnce.Do(func() {
		parser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parser
}

var (
	boldStyle   = color.New(color.Bold)
	italicStyle = color.New(color.Italic)
	strikeStyle = color.New(color.CrossedOut)
	codeStyle   = color.New(color.FgCyan)
	faintStyle  = color.New(color.Faint)
	linkStyle   = color.New(color.Underline)
)

// Markdown renders content as plain terminal text. Soft line breaks are
// kept, block elements are separated by blank lines, and styling is
// dropped when color output is disabled.
func Markdown(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	source := []byte(content)
	doc := markdown().Parser().Parse(text.NewReader(source))

	w := &walker{source: source}
	_ = ast.Walk(doc, w.walk)
	return strings.TrimRight(w.out.String(), "\n")
}

type walker struct {
	source []byte

	out      strings.Builder
	inline   strings.Builder
	trailing int

	prefixes []string
	prefix   string
	bullet   string
	lists    []listState

	bold, italic, strike int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

func (w *walker) write(s string) {
	if s == "" {
		return
	}
	w.out.WriteString(s)
	n := len(s) - len(strings.TrimRight(s, "\n"))
	if n == len(s) {
		w.trailing += n
	} else {
		w.trailing = n
	}
}

func (w *walker) newline() {
	if w.trailing < 1 {
		w.write("\n")
	}
}

func (w *walker) blankLine() {
	for w.trailing < 2 {
		w.write("\n")
	}
}

func (w *walker) pushPrefix(p string) {
	w.prefixes = append(w.prefixes, p)
	w.prefix += p
}

func (w *walker) popPrefix() {
	if len(w.prefixes) == 0 {
		return
	}
	top := w.prefixes[len(w.prefixes)-1]
	w.prefixes = w.prefixes[:len(w.prefixes)-1]
	w.prefix = w.prefix[:len(w.prefix)-len(top)]
}

func (w *walker) tightList() bool {
	return len(w.lists) > 0 && w.lists[len(w.lists)-1].tight
}

// linePrefix returns the pending list bullet once, then the regular prefix.
func (w *walker) linePrefix() string {
	if w.bullet != "" {
		b := w.bullet
		w.bullet = ""
		return b
	}
	return w.prefix
}

func (w *walker) prefixed(content string) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i == 0 {
			b.WriteString(w.linePrefix())
		} else {
			b.WriteString(w.prefix)
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (w *walker) flush(style *color.Color) string {
	content := strings.TrimRight(w.inline.String(), "\n")
	w.inline.Reset()
	if content == "" {
		return ""
	}
	if style != nil {
		content = style.Sprint(content)
	}
	return w.prefixed(content)
}

func (w *walker) styled(s string) string {
	if w.bold > 0 {
		s = boldStyle.Sprint(s)
	}
	if w.italic > 0 {
		s = italicStyle.Sprint(s)
	}
	if w.strike > 0 {
		s = strikeStyle.Sprint(s)
	}
	return s
}

func (w *walker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
			break
		}
		if flushed := w.flush(nil); flushed != "" {
			w.write(flushed)
			w.newline()
			if !w.tightList() {
				w.blankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
			break
		}
		w.write(w.flush(boldStyle))
		w.newline()
		w.blankLine()

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			w.codeBlock(node)
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			w.pushPrefix("> ")
		} else {
			w.popPrefix()
			w.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := list.Start
			if start == 0 {
				start = 1
			}
			w.lists = append(w.lists, listState{ordered: list.IsOrdered(), counter: start, tight: list.IsTight})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if len(w.lists) == 0 {
				w.blankLine()
			} else {
				w.newline()
			}
		}

	case ast.KindListItem:
		if entering {
			w.enterItem()
		} else {
			w.leaveItem()
		}

	case ast.KindThematicBreak:
		if entering {
			w.blankLine()
			w.write(w.prefixed(faintStyle.Sprint(strings.Repeat("─", 24))))
			w.newline()
			w.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			var b strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(w.source))
			}
			if raw := strings.TrimRight(b.String(), "\n"); raw != "" {
				w.write(w.prefixed(faintStyle.Sprint(raw)))
				w.newline()
				w.blankLine()
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			t := node.(*ast.Text)
			w.inline.WriteString(w.styled(string(t.Segment.Value(w.source))))
			if t.HardLineBreak() || t.SoftLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styled(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &w.italic
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &w.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if entering {
			w.inline.WriteString(codeStyle.Sprint(w.plain(node)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if !entering {
			link := node.(*ast.Link)
			dest := string(link.Destination)
			if dest != "" && dest != w.plain(node) {
				w.inline.WriteString(" " + faintStyle.Sprint("("+dest+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			w.inline.WriteString(linkStyle.Sprint(string(node.(*ast.AutoLink).URL(w.source))))
		}

	case ast.KindImage:
		if entering {
			img := node.(*ast.Image)
			label := "[image: " + w.plain(node) + "]"
			if dest := string(img.Destination); dest != "" {
				label += " (" + dest + ")"
			}
			w.inline.WriteString(faintStyle.Sprint(label))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			for i := 0; i < raw.Segments.Len(); i++ {
				seg := raw.Segments.At(i)
				w.inline.Write(seg.Value(w.source))
			}
		}

	case extast.KindStrikethrough:
		if entering {
			w.strike++
		} else {
			w.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				w.inline.WriteString("[x] ")
			} else {
				w.inline.WriteString("[ ] ")
			}
		}

	case extast.KindTable:
		if !entering {
			w.blankLine()
		}

	case extast.KindTableHeader, extast.KindTableRow:
		if entering {
			w.inline.Reset()
			break
		}
		var style *color.Color
		if node.Kind() == extast.KindTableHeader {
			style = boldStyle
		}
		w.write(w.flush(style))
		w.newline()

	case extast.KindTableCell:
		if entering && node.PreviousSibling() != nil {
			w.inline.WriteString(" | ")
		}
	}

	return ast.WalkContinue, nil
}

func (w *walker) codeBlock(node ast.Node) {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(w.source))
	}
	code := strings.TrimRight(b.String(), "\n")

	w.pushPrefix("    ")
	w.write(w.prefixed(codeStyle.Sprint(code)))
	w.popPrefix()
	w.newline()
	if !w.tightList() {
		w.blankLine()
	}
}

func (w *walker) enterItem() {
	if len(w.lists) == 0 {
		return
	}
	top := &w.lists[len(w.lists)-1]

	bullet := "- "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	}
	w.bullet = w.prefix + bullet
	w.pushPrefix(strings.Repeat(" ", len(bullet)))
}

func (w *walker) leaveItem() {
	// An empty item never consumed its bullet.
	if w.bullet != "" {
		w.write(strings.TrimRight(w.bullet, " "))
		w.bullet = ""
	}
	w.popPrefix()
	if w.tightList() {
		w.newline()
	} else {
		w.blankLine()
	}
}

// plain concatenates the literal text beneath node.
func (w *walker) plain(node ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(w.source))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

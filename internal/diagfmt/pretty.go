package diagfmt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"fortasr/internal/diag"
	"fortasr/internal/source"
)

// ResolveColor turns a --color flag value (auto|on|off) plus the output
// stream into a yes/no decision, the way the teacher's build/run commands
// decide whether to colorize based on the destination being a terminal.
func ResolveColor(mode ColorMode, out *os.File) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	default:
		return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	}
}

// visualWidthUpTo computes the on-screen column a byte offset falls at,
// expanding tabs and accounting for wide runes.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// Pretty renders bag's diagnostics in the teacher's
// "path:line:col: LEVEL [stage]: message" plus underlined-source-line
// shape, one blank line between diagnostics. bag should already be
// Sort()ed by the caller.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	noteColor := color.New(color.FgCyan, color.Bold)
	pathColor := color.New(color.FgWhite, color.Bold)
	stageColor := color.New(color.FgMagenta)
	lineNumColor := color.New(color.FgBlue)
	underlineColor := color.New(color.FgRed, color.Bold)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = opts.Color == ColorOff
	if opts.Color == ColorAuto {
		f, ok := w.(*os.File)
		color.NoColor = !ok || !ResolveColor(ColorAuto, f)
	}

	context, err := safecast.Conv[uint32](opts.Context)
	if err != nil {
		panic(fmt.Errorf("diagfmt: context overflow: %w", err))
	}
	if context == 0 {
		context = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		renderOne(w, d, fs, opts, context,
			errorColor, warningColor, noteColor, pathColor, stageColor, lineNumColor, underlineColor)
	}
}

func levelColor(l diag.Level, errC, warnC, noteC *color.Color) *color.Color {
	switch l {
	case diag.LevelError:
		return errC
	case diag.LevelWarning:
		return warnC
	default:
		return noteC
	}
}

func renderOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, context uint32,
	errC, warnC, noteC, pathC, stageC, lineNumC, underlineC *color.Color) {
	if !hasPrimary(d) {
		fmt.Fprintf(w, "%s: %s\n", levelColor(d.Level, errC, warnC, noteC).Sprint(d.Level.String()), d.Message)
		return
	}
	primary := d.Primary()

	start, end := fs.Resolve(primary)
	f := fs.Get(primary.File)
	displayPath := formatPath(f, fs, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s [%s]: %s\n",
		pathC.Sprint(displayPath), start.Line, start.Col,
		levelColor(d.Level, errC, warnC, noteC).Sprint(d.Level.String()),
		stageC.Sprint(d.Stage.String()),
		d.Message,
	)

	printSourceContext(w, f, start, end, context, lineNumC, underlineC)

	for _, l := range d.Labels {
		if l.Primary || len(l.Spans) == 0 {
			continue
		}
		ls, _ := fs.Resolve(l.Spans[0])
		lf := fs.Get(l.Spans[0].File)
		fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n",
			noteC.Sprint("note"), pathC.Sprint(formatPath(lf, fs, opts.PathMode)), ls.Line, ls.Col, l.Message)
	}
}

const tabWidth = 8

func printSourceContext(w io.Writer, f *source.File, start, end source.LineCol, context uint32, lineNumC, underlineC *color.Color) {
	totalLines, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("diagfmt: total lines overflow: %w", err))
	}
	totalLines++
	if len(f.LineIdx) == 0 && len(f.Content) > 0 {
		totalLines = 1
	}

	startLine := uint32(1)
	if start.Line > context {
		startLine = start.Line - context
	}
	endLine := min(start.Line+context, totalLines)

	if startLine > 1 {
		fmt.Fprintln(w, "...")
	}

	lineNumWidth := max(len(fmt.Sprintf("%d", endLine)), 3)
	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		lineText := f.GetLine(lineNum)
		gutter := fmt.Sprintf("%s | ", lineNumC.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		gutterLen := lineNumWidth + 3
		fmt.Fprint(w, gutter)
		fmt.Fprintln(w, lineText)

		if lineNum != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line > start.Line {
			lenText, err := safecast.Conv[uint32](len(lineText))
			if err != nil {
				panic(fmt.Errorf("diagfmt: line length overflow: %w", err))
			}
			endCol = lenText + 1
		}
		visualStart := visualWidthUpTo(lineText, start.Col, tabWidth)
		visualEnd := visualWidthUpTo(lineText, endCol, tabWidth)

		var underline strings.Builder
		for range gutterLen {
			underline.WriteByte(' ')
		}
		for range visualStart {
			underline.WriteByte(' ')
		}
		spanLen := visualEnd - visualStart
		if spanLen <= 0 {
			underline.WriteByte('^')
		} else {
			for i := range spanLen {
				if i == spanLen-1 {
					underline.WriteByte('^')
				} else {
					underline.WriteByte('~')
				}
			}
		}
		fmt.Fprintln(w, underlineC.Sprint(underline.String()))
	}

	if endLine < totalLines {
		fmt.Fprintln(w, "...")
	}
}

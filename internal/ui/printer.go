package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer writes styled CLI output. Commands print through a Printer so
// tests can capture the output.
type Printer struct {
	out   io.Writer
	width int
	plain bool
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetPlain disables boxes and colors, for output that is piped or parsed.
func (p *Printer) SetPlain(plain bool) *Printer {
	p.plain = plain
	return p
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Param) {
	if p.plain {
		p.Println(strings.ToUpper(title))
		for _, param := range params {
			p.Println(fmt.Sprintf("  %s: %s", param.Key, param.Value))
		}
		return
	}
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintResult prints a result box
func (p *Printer) PrintResult(r *Result) {
	if p.plain {
		p.printPlainResult(r)
		return
	}
	p.Println(r.SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Param) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Param) {
	p.PrintResult(NewWarningResult(title, details...))
}

// PrintError prints an error result box. Edit errors get the matching
// troubleshooting hint.
func (p *Printer) PrintError(title string, err error) {
	p.PrintResult(NewEditFailureResult(title, err))
}

// PrintDiff prints a document diff, coloring added and removed lines.
func (p *Printer) PrintDiff(diff string) {
	if p.plain {
		p.Println(diff)
		return
	}
	for _, line := range strings.Split(diff, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		switch {
		case strings.HasPrefix(trimmed, "+ "):
			p.Println(DiffAddedStyle.Render(line))
		case strings.HasPrefix(trimmed, "- "):
			p.Println(DiffRemovedStyle.Render(line))
		case strings.HasPrefix(trimmed, "==="):
			p.Println(DiffHeaderStyle.Render(line))
		default:
			p.Println(line)
		}
	}
}

func (p *Printer) printPlainResult(r *Result) {
	switch r.Type {
	case ResultFailure:
		p.Println(fmt.Sprintf("%s %s", FailureMarker, r.Title))
		if r.Error != nil {
			p.Println("  Error: " + r.Error.Error())
		}
		for _, tip := range r.Troubleshooting {
			p.Println("  " + tip)
		}
	case ResultWarning:
		p.Println(fmt.Sprintf("%s %s", WarningMarker, r.Title))
	default:
		p.Println(fmt.Sprintf("%s %s", SuccessMarker, r.Title))
	}
	for _, d := range r.Details {
		p.Println(fmt.Sprintf("  %s: %s", d.Key, d.Value))
	}
}

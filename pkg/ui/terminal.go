package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"igengage/pkg/engagement"
	"igengage/pkg/errors"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═══════════════════════════════════════════════╗
    ║   ╦╔═╗  ╔═╗╔╗╔╔═╗╔═╗╔═╗╔═╗╔╦╗╔═╗╔╗╔╔╦╗      ║
    ║   ║║ ╦  ║╣ ║║║║ ╦╠═╣║ ╦║╣ ║║║║╣ ║║║ ║       ║
    ║   ╩╚═╝  ╚═╝╝╚╝╚═╝╩ ╩╚═╝╚═╝╩ ╩╚═╝╝╚╝ ╩       ║
    ║       INSTAGRAM ENGAGEMENT RATE CHECKER       ║
    ╚═══════════════════════════════════════════════╝
`

const (
	// MsgInvalidUsername is shown instead of fetching when the input is blank
	MsgInvalidUsername = "Please enter a valid username."
	// MsgNotAccessible explains a missing, private or empty profile
	MsgNotAccessible = "Could not fetch data for this profile. Make sure it's public."
	// ErrorPrefix starts every failed-check line
	ErrorPrefix = "Error fetching data: "
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

func plain(text string) string { return text }

// Line is one labelled row of a check result. The first row has no label.
type Line struct {
	Label string
	Value string
}

// String renders the line as "Label: Value"
func (l Line) String() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

// InsightLines returns the derived ratios shown under a successful check
func InsightLines(r *engagement.Report) []Line {
	in := r.Insights()
	return []Line{
		{Label: "Like Rate", Value: engagement.FormatRate(in.LikeRate, 2) + "%"},
		{Label: "Comment Rate", Value: engagement.FormatRate(in.CommentRate, 2) + "%"},
		{Label: "Like to Comment Ratio", Value: in.FormatRatio()},
		{Label: "Total Avg Engagement", Value: engagement.FormatCompact(in.TotalEngagement)},
		{Label: "Audience Reach", Value: engagement.FormatCompact(in.AudienceReach)},
	}
}

// ReportLines returns the five lines shown for a successful check
func ReportLines(r *engagement.Report, precision int) []Line {
	return []Line{
		{Value: "@" + r.Username},
		{Label: "Followers", Value: engagement.FormatThousands(r.Followers)},
		{Label: "Avg Likes", Value: fmt.Sprintf("%d", r.Result.AverageLikes)},
		{Label: "Avg Comments", Value: fmt.Sprintf("%d", r.Result.AverageComments)},
		{Label: "Engagement Rate", Value: engagement.FormatRate(r.Result.EngagementRate, precision) + "%"},
	}
}

// ErrorMessage turns a failed check into the text shown after ErrorPrefix
func ErrorMessage(err error) string {
	var fetchErr *errors.Error
	switch {
	case errors.Is(err, errors.ErrEmptyUsername):
		return MsgInvalidUsername
	case errors.Is(err, errors.ErrNotAccessible):
		return MsgNotAccessible
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.As(err, &fetchErr):
		return fetchErr.Message
	default:
		return err.Error()
	}
}

// Printer writes colored check output to a terminal
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer. color disables ANSI codes when false.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(fn func(string) string) func(string) string {
	if !p.color {
		return plain
	}
	return fn
}

// Logo prints the ASCII logo
func (p *Printer) Logo() {
	fmt.Fprint(p.out, p.paint(Cyan)(ASCIILogo))
}

// Report prints the result of a successful check
func (p *Printer) Report(r *engagement.Report, precision int) {
	lines := ReportLines(r, precision)
	fmt.Fprintln(p.out, p.paint(Green)(lines[0].Value))
	for _, l := range lines[1:] {
		fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan)(l.Label), p.paint(Yellow)(l.Value))
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan)("Rating"), p.paint(Magenta)(string(r.Rating)))

	fmt.Fprintln(p.out)
	for _, l := range InsightLines(r) {
		fmt.Fprintf(p.out, "%s: %s\n", p.paint(Dim)(l.Label), l.Value)
	}
	if r.ProfileURL != "" {
		fmt.Fprintf(p.out, "%s: %s\n", p.paint(Dim)("Profile"), r.ProfileURL)
	}
}

// CheckError prints a failed check as a single line
func (p *Printer) CheckError(err error) {
	if errors.Is(err, errors.ErrEmptyUsername) {
		fmt.Fprintln(p.out, p.paint(Yellow)(MsgInvalidUsername))
		return
	}
	fmt.Fprintln(p.out, p.paint(Red)(ErrorPrefix+ErrorMessage(err)))
}

// Info prints a label and value
func (p *Printer) Info(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan)(label), p.paint(Yellow)(value))
}

var stdout = NewPrinter(os.Stdout, true)

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	stdout.Info(label, value)
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string) {
	fmt.Println(Yellow(msg))
}

// ABOUTME: Terminal output helpers for the nexus CLI
// ABOUTME: Colored headings, tabular listings and rendered entry content

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/nexus-client/internal/api"
	"github.com/2389/nexus-client/internal/render"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	faint  = color.New(color.Faint)
)

func heading(w io.Writer, title string) {
	fmt.Fprintln(w)
	cyan.Fprintf(w, "  %s\n", title)
	cyan.Fprintf(w, "  %s\n", strings.Repeat("-", len(title)))
}

func formatTime(unix int64) string {
	if unix <= 0 {
		return "-"
	}
	return time.Unix(unix, 0).Format("Jan 02 15:04")
}

func deref[T any](p *T, fallback string) string {
	if p == nil {
		return fallback
	}
	return fmt.Sprint(*p)
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func printEvents(w io.Writer, events []api.Event) {
	heading(w, "Events")
	if len(events) == 0 {
		fmt.Fprintln(w, "  (no events)")
		fmt.Fprintln(w)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tSTART\tEND\tTAGS")
	fmt.Fprintln(tw, "  --\t-----\t-----\t---\t----")
	for _, e := range events {
		end := "-"
		if e.EndTime != nil {
			end = formatTime(*e.EndTime)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n", e.ID, truncate(e.Title, 32), formatTime(e.StartTime), end, deref(e.Tags, ""))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printThreads(w io.Writer, threads []api.ThreadWithCount) {
	if len(threads) == 0 {
		fmt.Fprintln(w, "  (no threads)")
		fmt.Fprintln(w)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tENTRIES\tCREATED")
	fmt.Fprintln(tw, "  --\t-----\t-------\t-------")
	for _, t := range threads {
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\n", t.ID, truncate(t.Title, 40), t.EntryCount, formatTime(t.CreatedAt))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printEvent(w io.Writer, e *api.EventWithThreads) {
	heading(w, e.Title)
	fmt.Fprintf(w, "  ID:          %d\n", e.ID)
	fmt.Fprintf(w, "  Starts:      %s\n", formatTime(e.StartTime))
	if e.EndTime != nil {
		fmt.Fprintf(w, "  Ends:        %s\n", formatTime(*e.EndTime))
	}
	if e.Tags != nil && *e.Tags != "" {
		fmt.Fprintf(w, "  Tags:        %s\n", *e.Tags)
	}
	if e.MaxThreadAmount != nil {
		fmt.Fprintf(w, "  Max threads: %d\n", *e.MaxThreadAmount)
	}
	if e.Description != nil && *e.Description != "" {
		fmt.Fprintln(w)
		printContent(w, *e.Description, "  ")
	}
	fmt.Fprintln(w)
	printThreads(w, e.Threads)
}

func printEntries(w io.Writer, page *api.EntryPage) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "  (no entries)")
		fmt.Fprintln(w)
		return
	}
	for _, e := range page.Items {
		printEntry(w, e)
	}
	if page.HasMore {
		last := page.Items[len(page.Items)-1].ID
		faint.Fprintf(w, "  ... more entries (use --after %d)\n", last)
	}
	fmt.Fprintln(w)
}

func printEntry(w io.Writer, e api.EntryWithAgent) {
	fmt.Fprintf(w, "  %s %s %s\n",
		green.Sprintf("%s", e.Agent.Name),
		faint.Sprintf("#%d", e.ID),
		faint.Sprint(formatTime(e.Timestamp)))
	printContent(w, e.Content, "    ")
}

func printContent(w io.Writer, content, indent string) {
	rendered := render.Markdown(content)
	if rendered == "" {
		return
	}
	for _, line := range strings.Split(rendered, "\n") {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

func printAgent(w io.Writer, a api.Agent) {
	fmt.Fprintf(w, "  Agent ID:     %d\n", a.ID)
	fmt.Fprintf(w, "  Name:         %s\n", a.Name)
	fmt.Fprintf(w, "  Type:         %s\n", a.Type)
	if a.Capabilities != nil {
		fmt.Fprintf(w, "  Capabilities: %s\n", *a.Capabilities)
	}
}

// rejected reports a non-2xx reply of a mutating call.
func rejected[T any](op string, r *api.Reply[T]) error {
	return r.Err(op, "request rejected")
}

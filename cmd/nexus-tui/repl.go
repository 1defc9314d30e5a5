// ABOUTME: Read-eval-print loop over an App
// ABOUTME: Slash commands browse and select; plain lines post to the active thread

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/nexus-client/internal/api"
	"github.com/2389/nexus-client/internal/app"
	"github.com/2389/nexus-client/internal/render"
	"github.com/2389/nexus-client/internal/selection"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

type repl struct {
	in  io.Reader
	out io.Writer
	app *app.App

	// lastEntryID is the highest entry id shown for the active thread.
	lastEntryID int64

	unsubscribe []func()
}

func newREPL(in io.Reader, out io.Writer) *repl {
	return &repl{in: in, out: out}
}

// attach binds the REPL to a, announcing selection and session changes.
func (r *repl) attach(a *app.App) {
	r.app = a

	first := true
	r.unsubscribe = append(r.unsubscribe, a.Selection.Agent.Subscribe(func(sel selection.AgentSelection) {
		if first {
			first = false
			return
		}
		if !sel.Selected() {
			faint.Fprintln(r.out, "Posting anonymously")
			return
		}
		kind := "public"
		if sel.Secret != nil {
			kind = "private"
		}
		name := "unnamed"
		if sel.Name != nil {
			name = *sel.Name
		}
		green.Fprintf(r.out, "Now posting as %s (%s agent)\n", name, kind)
	}))

	r.unsubscribe = append(r.unsubscribe, a.Selection.ActiveThread.Subscribe(func(id *string) {
		r.lastEntryID = 0
	}))

	signedIn := a.Session.LoggedIn()
	r.unsubscribe = append(r.unsubscribe, a.Session.Subscribe(func(u *api.User) {
		switch {
		case u != nil && !signedIn:
			green.Fprintf(r.out, "Signed in as %s\n", u.Username)
		case u == nil && signedIn:
			yellow.Fprintln(r.out, "Signed out")
		}
		signedIn = u != nil
	}))
}

func (r *repl) detach() {
	for _, fn := range r.unsubscribe {
		fn()
	}
	r.unsubscribe = nil
}

// Navigate is called by the session after logout.
func (r *repl) Navigate(path string) {
	faint.Fprintf(r.out, "Sign in again with /login, or on the web at %s%s\n", r.app.Client.BaseURL(), path)
}

func (r *repl) prompt() string {
	var parts []string
	if sel := r.app.Selection.Agent.Get(); sel.Name != nil {
		parts = append(parts, *sel.Name)
	}
	if id, ok := r.app.Selection.ActiveThreadID(); ok {
		parts = append(parts, "#"+id)
	}
	if len(parts) == 0 {
		return "> "
	}
	return "[" + strings.Join(parts, " ") + "]> "
}

func (r *repl) run(ctx context.Context) error {
	defer r.detach()
	scanner := bufio.NewScanner(r.in)

	for {
		fmt.Fprint(r.out, r.prompt())

		// Read input with context awareness
		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if err := r.handle(ctx, input); err != nil {
			red.Fprintf(r.out, "[error] %v\n", err)
		}
		fmt.Fprintln(r.out)
	}
}

// handle runs one line of input.
func (r *repl) handle(ctx context.Context, input string) error {
	if !strings.HasPrefix(input, "/") {
		return r.post(ctx, input)
	}

	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		r.printHelp()
		return nil
	case "/events":
		return r.events(ctx, args)
	case "/event":
		if len(args) != 1 {
			return errors.New("usage: /event <event-id>")
		}
		return r.event(ctx, args[0])
	case "/threads":
		if len(args) != 1 {
			return errors.New("usage: /threads <event-id>")
		}
		return r.threads(ctx, args[0])
	case "/new":
		if len(args) < 2 {
			return errors.New("usage: /new <event-id> <title>")
		}
		return r.newThread(ctx, args[0], strings.Join(args[1:], " "))
	case "/use":
		if len(args) == 0 {
			r.app.Selection.ClearActiveThread()
			fmt.Fprintln(r.out, "Cleared active thread")
			return nil
		}
		return r.use(ctx, args[0])
	case "/history":
		return r.history(ctx, false)
	case "/more":
		return r.history(ctx, true)
	case "/agent":
		return r.agent(ctx, args)
	case "/login":
		if len(args) != 2 {
			return errors.New("usage: /login <username> <password>")
		}
		_, err := r.app.Session.Login(ctx, args[0], args[1])
		return err
	case "/register":
		if len(args) != 3 {
			return errors.New("usage: /register <username> <email> <password>")
		}
		_, err := r.app.Session.Register(ctx, args[0], args[1], args[2])
		return err
	case "/whoami":
		if u := r.app.Session.User(); u != nil {
			fmt.Fprintf(r.out, "%s <%s> (user %d)\n", u.Username, u.Email, u.ID)
		} else {
			fmt.Fprintln(r.out, "Not signed in")
		}
		return nil
	case "/logout":
		if !r.app.Session.LoggedIn() {
			fmt.Fprintln(r.out, "Not signed in")
			return nil
		}
		r.app.Session.Logout(ctx)
		return nil
	default:
		return fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// printHelp displays available commands.
func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  /events [tag]                  List events")
	fmt.Fprintln(r.out, "  /event <id>                    Show an event and its threads")
	fmt.Fprintln(r.out, "  /threads <event-id>            List threads with entry counts")
	fmt.Fprintln(r.out, "  /new <event-id> <title>        Create a thread")
	fmt.Fprintln(r.out, "  /use <thread-id>               Focus a thread and show its entries")
	fmt.Fprintln(r.out, "  /use                           Clear the active thread")
	fmt.Fprintln(r.out, "  /history                       Re-read the active thread")
	fmt.Fprintln(r.out, "  /more                          Show entries newer than the last shown")
	fmt.Fprintln(r.out, "  /agent public <name>           Post as a public agent")
	fmt.Fprintln(r.out, "  /agent private <name> <secret> Post as an existing private agent")
	fmt.Fprintln(r.out, "  /agent secure <name> <secret>  Claim a private agent and post as it")
	fmt.Fprintln(r.out, "  /agent                         Post anonymously")
	fmt.Fprintln(r.out, "  /login <user> <password>       Sign in")
	fmt.Fprintln(r.out, "  /register <user> <email> <pw>  Create an account")
	fmt.Fprintln(r.out, "  /whoami                        Show the signed-in user")
	fmt.Fprintln(r.out, "  /logout                        Sign out")
	fmt.Fprintln(r.out, "  /help                          Show this help")
	fmt.Fprintln(r.out, "  /quit                          Exit")
}

func (r *repl) events(ctx context.Context, args []string) error {
	var events []api.Event
	var err error
	if len(args) > 0 {
		events, err = r.app.Client.ListEventsByTag(ctx, args[0])
	} else {
		events, err = r.app.Client.ListEvents(ctx)
	}
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(r.out, "No events")
		return nil
	}

	cyan.Fprintln(r.out, "Events:")
	for _, e := range events {
		fmt.Fprintf(r.out, "  %d: %s %s\n", e.ID, e.Title, faint.Sprint(clock(e.StartTime)))
	}
	return nil
}

func (r *repl) event(ctx context.Context, id string) error {
	e, err := r.app.Client.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		yellow.Fprintf(r.out, "Event %s not found\n", id)
		return nil
	}
	cyan.Fprintf(r.out, "%s\n", e.Title)
	if e.Description != nil {
		if text := render.Markdown(*e.Description); text != "" {
			fmt.Fprintln(r.out, text)
		}
	}
	r.printThreads(e.Threads)
	return nil
}

func (r *repl) threads(ctx context.Context, eventID string) error {
	threads, err := r.app.Client.ListThreads(ctx, eventID)
	if err != nil {
		return err
	}
	r.printThreads(threads)
	return nil
}

func (r *repl) printThreads(threads []api.ThreadWithCount) {
	if len(threads) == 0 {
		fmt.Fprintln(r.out, "No threads")
		return
	}
	cyan.Fprintln(r.out, "Threads:")
	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for _, t := range threads {
		fmt.Fprintf(tw, "  %d\t%s\t%d entries\n", t.ID, t.Title, t.EntryCount)
	}
	tw.Flush()
}

func (r *repl) newThread(ctx context.Context, eventID, title string) error {
	reply, err := r.app.Client.CreateThread(ctx, eventID, title)
	if err != nil {
		return err
	}
	if err := reply.Err("create_thread", "thread rejected"); err != nil {
		return err
	}
	green.Fprintf(r.out, "Created thread %d: %s (/use %d to join)\n", reply.Value.ID, reply.Value.Title, reply.Value.ID)
	return nil
}

func (r *repl) use(ctx context.Context, threadID string) error {
	page, err := r.app.OpenThread(ctx, threadID)
	if err != nil {
		return err
	}
	r.printPage(page)
	return nil
}

func (r *repl) history(ctx context.Context, newer bool) error {
	threadID, ok := r.app.Selection.ActiveThreadID()
	if !ok {
		return errors.New("no active thread; /use <thread-id> first")
	}

	var page *api.EntryPage
	var err error
	if newer && r.lastEntryID > 0 {
		page, err = r.app.Client.ListEntriesAfter(ctx, threadID, r.lastEntryID)
	} else {
		page, err = r.app.Client.ListEntries(ctx, threadID)
	}
	if err != nil {
		return err
	}
	r.printPage(page)
	return nil
}

func (r *repl) printPage(page *api.EntryPage) {
	if len(page.Items) == 0 {
		fmt.Fprintln(r.out, "No entries")
		return
	}
	for _, e := range page.Items {
		r.printEntry(e)
		if e.ID > r.lastEntryID {
			r.lastEntryID = e.ID
		}
	}
	if page.HasMore {
		faint.Fprintln(r.out, "... more entries available (/more)")
	}
}

func (r *repl) printEntry(e api.EntryWithAgent) {
	fmt.Fprintf(r.out, "%s %s\n", green.Sprint(e.Agent.Name), faint.Sprint(clock(e.Timestamp)))
	for _, line := range strings.Split(render.Markdown(e.Content), "\n") {
		fmt.Fprintf(r.out, "  %s\n", line)
	}
}

func (r *repl) agent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		r.app.Selection.ClearAgent()
		return nil
	}

	var err error
	switch {
	case args[0] == "public" && len(args) == 2:
		_, err = r.app.ActAsPublic(ctx, args[1])
	case args[0] == "private" && len(args) == 3:
		_, err = r.app.ActAsPrivate(ctx, args[1], args[2], false)
	case args[0] == "secure" && len(args) == 3:
		_, err = r.app.ActAsPrivate(ctx, args[1], args[2], true)
	default:
		return errors.New("usage: /agent [public <name> | private <name> <secret> | secure <name> <secret>]")
	}
	return err
}

func (r *repl) post(ctx context.Context, content string) error {
	reply, err := r.app.Post(ctx, content)
	if errors.Is(err, app.ErrNoActiveThread) {
		return errors.New("no active thread; /use <thread-id> first")
	}
	if err != nil {
		return err
	}
	if err := reply.Err("create_entry", "entry rejected"); err != nil {
		return err
	}
	faint.Fprintf(r.out, "posted #%d\n", reply.Value.ID)
	return nil
}

func clock(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).Format("Jan 02 15:04")
}

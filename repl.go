package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"policyqa/internal/render"
)

const replHelp = `Commands:
  /new          start a new conversation
  /history      list saved conversations
  /switch <n>   switch to a saved conversation
  /delete <n>   delete a saved conversation
  /help         show this help
  /quit         save and exit

Anything else is sent to the answering service as a question. After an
answer with follow-up suggestions, type its number to ask it.`

// runREPL drives the interactive chat loop until EOF, /quit, or a
// cancelled context.
func runREPL(ctx context.Context, app *App) error {
	out := os.Stdout
	printGreeting(ctx, out, app)

	var followUps []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprint(out, "\nyou> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(out, app, line); quit {
				break
			}
			followUps = nil
			continue
		}

		// A bare number picks one of the last answer's follow-up questions.
		question := line
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(followUps) {
			question = followUps[n-1]
			fmt.Fprintf(out, "you> %s\n", question)
		}

		reply := app.Session.Ask(ctx, question)
		if reply == nil {
			continue
		}
		view := render.Message(*reply)
		printMessage(out, view)
		followUps = reply.FollowUps
	}

	app.Session.StartNewChat()
	return scanner.Err()
}

func printGreeting(ctx context.Context, out io.Writer, app *App) {
	fmt.Fprintln(out, "policyqa interactive chat. Type /help for commands.")

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if stats, err := app.Client.Stats(probeCtx); err == nil {
		fmt.Fprintf(out, "Connected: %d document(s), %d chunk(s) indexed.\n", stats.Documents, stats.Chunks)
	} else {
		fmt.Fprintln(out, "The answering service is not reachable yet. Questions will fail until it is running.")
	}
}

// runCommand handles a slash command and reports whether the loop should end.
func runCommand(out io.Writer, app *App, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Fprintln(out, replHelp)

	case "/new":
		app.Session.StartNewChat()
		fmt.Fprintln(out, "Started a new conversation.")

	case "/history":
		convs := recentFirst(app.History.ListAll())
		if len(convs) == 0 {
			fmt.Fprintln(out, "No saved conversations.")
			break
		}
		for i, conv := range convs {
			marker := "  "
			if conv.ID == app.Session.ActiveConversationID() {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%2d. %-40s %3d messages  %s\n",
				marker, i+1, conv.Title, len(conv.Messages),
				conv.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}

	case "/switch":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: /switch <number>")
			break
		}
		conv, ok := pickConversation(recentFirst(app.History.ListAll()), args[0])
		if !ok {
			fmt.Fprintf(out, "No conversation matches %q.\n", args[0])
			break
		}
		if err := app.Session.SwitchTo(conv.ID); err != nil {
			fmt.Fprintf(out, "Could not switch: %v\n", err)
			break
		}
		fmt.Fprintf(out, "Switched to %q.\n", app.Session.Title())
		for _, msg := range app.Session.Messages() {
			printMessage(out, render.Message(msg))
		}

	case "/delete":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: /delete <number>")
			break
		}
		conv, ok := pickConversation(recentFirst(app.History.ListAll()), args[0])
		if !ok {
			fmt.Fprintf(out, "No conversation matches %q.\n", args[0])
			break
		}
		app.Session.DeleteConversation(conv.ID)
		fmt.Fprintf(out, "Deleted %q.\n", conv.Title)

	default:
		fmt.Fprintf(out, "Unknown command %s. Type /help for commands.\n", cmd)
	}
	return false
}

// printMessage writes a rendered message to the terminal.
func printMessage(out io.Writer, view render.MessageView) {
	prefix := "bot> "
	if view.Role == "user" {
		prefix = "you> "
	}
	fmt.Fprintln(out)
	printBlocks(out, prefix, view.Blocks)

	if view.Citations != nil {
		fmt.Fprintf(out, "\n%s%s\n", prefix, view.Citations.Header)
		for _, card := range view.Citations.Cards {
			fmt.Fprintf(out, "%s  [%s]", prefix, card.Title)
			if card.Meta != "" {
				fmt.Fprintf(out, " %s", card.Meta)
			}
			fmt.Fprintln(out)
			if card.Snippet != "" {
				fmt.Fprintf(out, "%s    %s\n", prefix, card.Snippet)
			}
		}
	}

	if len(view.FollowUps) > 0 {
		fmt.Fprintf(out, "\n%sYou could also ask:\n", prefix)
		for i, item := range view.FollowUps {
			fmt.Fprintf(out, "%s  [%d] %s\n", prefix, i+1, item.Question)
		}
	}
}

func printBlocks(out io.Writer, prefix string, blocks []render.Block) {
	for i, block := range blocks {
		if i > 0 {
			fmt.Fprintln(out, strings.TrimRight(prefix, " "))
		}
		switch block.Type {
		case render.BlockHeading:
			text := spansText(block.Spans)
			fmt.Fprintf(out, "%s%s\n", prefix, ansiBold(text))
		case render.BlockQuote:
			for _, line := range strings.Split(spansText(block.Spans), "\n") {
				fmt.Fprintf(out, "%s| %s\n", prefix, line)
			}
		case render.BlockList:
			for _, item := range block.Items {
				fmt.Fprintf(out, "%s- %s\n", prefix, spansText(item))
			}
		case render.BlockCallout:
			fmt.Fprintf(out, "%s(no direct answer)\n", prefix)
			printBlocks(out, prefix+"  ", block.Children)
		default:
			for _, line := range strings.Split(spansText(block.Spans), "\n") {
				fmt.Fprintf(out, "%s%s\n", prefix, line)
			}
		}
	}
}

// spansText flattens inline spans into terminal text, using ANSI styling
// for emphasis and undoing the HTML escaping applied during rendering.
func spansText(spans []render.Span) string {
	var b strings.Builder
	for _, span := range spans {
		switch span.Kind {
		case render.SpanBreak:
			b.WriteByte('\n')
		case render.SpanStrong:
			b.WriteString(ansiBold(spansText(span.Children)))
		case render.SpanEm:
			b.WriteString("\x1b[3m" + spansText(span.Children) + "\x1b[0m")
		case render.SpanCode:
			b.WriteString("\x1b[36m" + unescapeHTML(span.Text) + "\x1b[0m")
		default:
			b.WriteString(unescapeHTML(span.Text))
		}
	}
	return b.String()
}

func ansiBold(s string) string {
	return "\x1b[1m" + s + "\x1b[0m"
}

// unescapeHTML reverses the escaping the renderer applies. The ampersand
// comes last so "&amp;lt;" round-trips correctly.
func unescapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

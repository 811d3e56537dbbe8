package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"google.golang.org/grpc/status"

	chatsyncv1 "github.com/fixitnow/chatsync/gen/chatsync/v1"
	"github.com/fixitnow/chatsync/internal/api"
	"github.com/fixitnow/chatsync/internal/session"
)

func main() {
	sessionFlag := pflag.StringP("session", "s", "", "session name (overrides config default)")
	jsonFlag := pflag.Bool("json", false, "output in JSON format")
	timeoutFlag := pflag.Duration("timeout", 10*time.Second, "timeout for unary commands")
	pflag.Usage = printUsage
	pflag.Parse()

	sessionName, err := session.Resolve(*sessionFlag)
	if err != nil {
		fail(err)
	}

	args := pflag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c, err := api.Dial(session.SocketPath(sessionName))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot connect to daemon for session %q: %v\n", sessionName, err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	if args[0] == "watch" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		cmdWatch(ctx, c.Widget, *jsonFlag)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	w := c.Widget
	out := printer{json: *jsonFlag}
	switch args[0] {
	case "open":
		snap, err := w.OpenWidget(ctx, &chatsyncv1.OpenWidgetRequest{})
		check(err)
		out.snapshot(snap)
	case "close":
		_, err := w.CloseWidget(ctx, &chatsyncv1.Empty{})
		check(err)
	case "snapshot":
		snap, err := w.Snapshot(ctx, &chatsyncv1.Empty{})
		check(err)
		out.snapshot(snap)
	case "select":
		need(args, 2, "select <conversation-key>")
		resp, err := w.SelectConversation(ctx, &chatsyncv1.SelectConversationRequest{Key: args[1]})
		check(err)
		out.messages(resp.GetMessages())
	case "send":
		need(args, 3, "send <user-id> <text>")
		to, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fail(fmt.Errorf("invalid user id %q", args[1]))
		}
		resp, err := w.SendMessage(ctx, &chatsyncv1.SendMessageRequest{ReceiverId: to, Body: strings.Join(args[2:], " ")})
		check(err)
		out.messages([]*chatsyncv1.Message{resp.GetMessage()})
	case "retry":
		need(args, 2, "retry <temp-id>")
		resp, err := w.RetryMessage(ctx, &chatsyncv1.TempIdRequest{TempId: args[1]})
		check(err)
		out.messages([]*chatsyncv1.Message{resp.GetMessage()})
	case "discard":
		need(args, 2, "discard <temp-id>")
		resp, err := w.DiscardMessage(ctx, &chatsyncv1.TempIdRequest{TempId: args[1]})
		check(err)
		out.messages([]*chatsyncv1.Message{resp.GetMessage()})
	case "search":
		need(args, 2, "search <text>")
		resp, err := w.Search(ctx, &chatsyncv1.SearchRequest{Query: strings.Join(args[1:], " ")})
		check(err)
		out.messages(resp.GetMessages())
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatctl [--session <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  open                  Open the widget and print the snapshot")
	fmt.Fprintln(os.Stderr, "  close                 Close the widget")
	fmt.Fprintln(os.Stderr, "  snapshot              Print the current state")
	fmt.Fprintln(os.Stderr, "  select <key>          Open a conversation and print its messages")
	fmt.Fprintln(os.Stderr, "  send <user-id> <text> Send a message")
	fmt.Fprintln(os.Stderr, "  retry <temp-id>       Resend a failed message")
	fmt.Fprintln(os.Stderr, "  discard <temp-id>     Drop a failed message")
	fmt.Fprintln(os.Stderr, "  search <text>         Search archived messages")
	fmt.Fprintln(os.Stderr, "  watch                 Stream changes until interrupted")
	fmt.Fprintln(os.Stderr, "")
	pflag.PrintDefaults()
}

func cmdWatch(ctx context.Context, w chatsyncv1.WidgetClient, jsonOut bool) {
	stream, err := w.Watch(ctx, &chatsyncv1.WatchRequest{})
	check(err)
	for {
		ev, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}
			fail(err)
		}
		if jsonOut {
			outputJSON(ev)
			continue
		}
		at := time.UnixMilli(ev.OccurredAtUnixMs).Format(time.TimeOnly)
		switch {
		case ev.Connection != nil:
			fmt.Printf("%s connection %s -> %s %s\n", at, ev.Connection.From, ev.Connection.To, ev.Connection.Reason)
		case ev.Change != nil:
			fmt.Printf("%s changed %d conversation(s), unread %d\n", at, len(ev.Change.Conversations), ev.Change.UnreadTotal)
			for _, m := range ev.Change.Confirmed {
				fmt.Printf("  confirmed %s (was %s)\n", m.Id, m.TempId)
			}
		case ev.Message != nil && ev.Message.State == "failed":
			fmt.Printf("%s send failed %s: %s\n", at, ev.Message.TempId, ev.Message.FailReason)
		}
	}
}

type printer struct {
	json bool
}

func (p printer) snapshot(s *chatsyncv1.SnapshotResponse) {
	if p.json {
		outputJSON(s)
		return
	}
	fmt.Printf("User:       %d\n", s.Self)
	fmt.Printf("Connection: %s\n", s.Connection)
	fmt.Printf("Unread:     %d\n", s.UnreadTotal)
	if len(s.Conversations) == 0 {
		fmt.Println("No conversations.")
	}
	for _, c := range s.Conversations {
		marker := " "
		if c.Key == s.Active {
			marker = "*"
		}
		fmt.Printf("%s %-12s %-20s %3d  %s\n", marker, c.Key, c.DisplayName, c.UnreadCount, c.LastMessagePreview)
	}
	if s.Active != "" {
		fmt.Println()
		p.messages(s.Messages)
	}
}

func (p printer) messages(msgs []*chatsyncv1.Message) {
	if p.json {
		outputJSON(msgs)
		return
	}
	for _, m := range msgs {
		at := time.UnixMilli(m.SentAtUnixMs).Format(time.DateTime)
		line := fmt.Sprintf("%s  %d -> %d  %s", at, m.SenderId, m.ReceiverId, m.Body)
		switch {
		case m.State == "failed":
			line += fmt.Sprintf("  [failed: %s, id %s]", m.FailReason, m.Id)
		case m.State == "pending":
			line += "  [sending]"
		case m.SeenByPeer:
			line += "  [seen]"
		}
		fmt.Println(line)
	}
}

func need(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintf(os.Stderr, "usage: chatctl %s\n", usage)
		os.Exit(1)
	}
}

func check(err error) {
	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	if st, ok := status.FromError(err); ok {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", st.Code(), st.Message())
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}

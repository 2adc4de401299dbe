// Command todoctl is a small terminal client for the todo service.
//
// Usage:
//
//	todoctl [-server URL] [-session FILE] <command> [args]
//
// Commands:
//
//	lists                        show active and archived lists
//	add-list <title> [desc]      create a list
//	add-item <list-id> <title>   add an item to a list
//	complete <item-id>           mark an item completed
//	remind <item-id> <duration>  add a reminder due after duration (e.g. 90m)
//	archive <list-id>            toggle a list's archived flag
//	rm-list <id>                 delete a list
//	rm-item <id>                 delete an item
//	rm-reminder <id>             delete a reminder
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/example/todo-reminders/client"
	"github.com/example/todo-reminders/domain/todo"
	"github.com/example/todo-reminders/session"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "todoctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	v := viper.New()
	v.SetEnvPrefix("TODOCTL")
	v.AutomaticEnv()
	v.SetDefault("server", "http://localhost:3000")
	v.SetDefault("session_file", session.DefaultPath())

	fs := flag.NewFlagSet("todoctl", flag.ContinueOnError)
	server := fs.String("server", v.GetString("server"), "todo service base URL")
	sessionFile := fs.String("session", v.GetString("session_file"), "file holding the session tag")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	provider, err := session.NewProvider(session.NewViperStore(*sessionFile))
	if err != nil {
		return err
	}
	store := client.NewStore(client.NewClient(*server, provider, nil))

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "lists":
		if err := store.Refresh(ctx); err != nil {
			return storeError(store, err)
		}
		printLists(out, "Active", store.Active())
		printLists(out, "Archived", store.Archived())
		return nil
	case "add-list":
		if err := need(rest, 1); err != nil {
			return err
		}
		var desc *string
		if len(rest) > 1 {
			desc = &rest[1]
		}
		return storeError(store, store.CreateList(ctx, rest[0], desc))
	case "add-item":
		if err := need(rest, 2); err != nil {
			return err
		}
		return storeError(store, store.AddItem(ctx, rest[0], rest[1], nil, nil))
	case "complete":
		if err := need(rest, 1); err != nil {
			return err
		}
		done := true
		return storeError(store, store.UpdateItem(ctx, rest[0], todo.UpdateItemInput{IsCompleted: &done}))
	case "remind":
		if err := need(rest, 2); err != nil {
			return err
		}
		after, err := time.ParseDuration(rest[1])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", rest[1], err)
		}
		return storeError(store, store.AddReminder(ctx, rest[0], time.Now().Add(after)))
	case "archive":
		if err := need(rest, 1); err != nil {
			return err
		}
		if err := store.Refresh(ctx); err != nil {
			return storeError(store, err)
		}
		return storeError(store, store.ToggleArchive(ctx, rest[0]))
	case "rm-list":
		if err := need(rest, 1); err != nil {
			return err
		}
		return storeError(store, store.DeleteList(ctx, rest[0]))
	case "rm-item":
		if err := need(rest, 1); err != nil {
			return err
		}
		return storeError(store, store.DeleteItem(ctx, rest[0]))
	case "rm-reminder":
		if err := need(rest, 1); err != nil {
			return err
		}
		return storeError(store, store.DeleteReminder(ctx, rest[0]))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func need(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

// storeError prefers the store's user-facing message over the raw error.
func storeError(s *client.Store, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, client.ErrNoSession) {
		return err
	}
	if msg := s.Err(); msg != "" {
		return fmt.Errorf("%s (%w)", msg, err)
	}
	return err
}

func printLists(out io.Writer, heading string, lists []todo.TodoList) {
	fmt.Fprintf(out, "%s (%d)\n", heading, len(lists))
	for _, l := range lists {
		fmt.Fprintf(out, "  %s  %s\n", l.ID, l.Title)
		for _, item := range l.Items {
			mark := " "
			if item.IsCompleted {
				mark = "x"
			}
			fmt.Fprintf(out, "    [%s] %s  %s\n", mark, item.ID, item.Title)
			for _, r := range item.Reminders {
				fmt.Fprintf(out, "        reminder %s at %s\n", r.ID, r.ReminderAt.Local().Format(time.RFC1123))
			}
		}
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/beefboard/boardclient/internal/logging"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Feed(ctx context.Context) error
	Refresh(ctx context.Context) error
	Post(ctx context.Context, title string) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	Delete(ctx context.Context, id string) error
	User(ctx context.Context, username string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: feed, refresh, user <name>, register, login, whoami, help, exit"
	helpLoggedIn  = "Available commands: feed, refresh, post <title>, pin <id>, unpin <id>, delete <id>, user <name>, logout, whoami, help, exit"
)

// runREPL reads commands until EOF, "exit" or "quit". Command errors are
// reported and the loop keeps going; ^C only cancels the current line.
func runREPL(ctx context.Context, a execIface, prompt func() string, lines lineReader) {
	for {
		lines.SetPrompt(prompt())
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			printlnFn("Use 'exit' to leave.")
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if err := dispatch(logging.ContextWith(ctx, "command", cmd), a, cmd, args); err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "feed":
		return a.Feed(ctx)
	case "refresh":
		return a.Refresh(ctx)
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	}

	if len(args) == 0 {
		switch cmd {
		case "post":
			printlnFn("Usage: post <title>")
		case "pin", "unpin", "delete":
			printlnFn("Usage:", cmd, "<id>")
		case "user":
			printlnFn("Usage: user <name>")
		default:
			printlnFn("Unknown command:", cmd)
		}
		return nil
	}

	switch cmd {
	case "post":
		return a.Post(ctx, strings.Join(args, " "))
	case "pin":
		return a.SetPinned(ctx, args[0], true)
	case "unpin":
		return a.SetPinned(ctx, args[0], false)
	case "delete":
		return a.Delete(ctx, args[0])
	case "user":
		return a.User(ctx, args[0])
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

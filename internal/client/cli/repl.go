package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Show(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: list [page], next, prev, show, edit <id>, delete <id>, logout, help, exit"
	msgLoginFirst = "Please log in first (type 'login')"
)

// runREPL starts a read-eval-print loop for the useradmin CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to a. The loop exits on EOF, on "exit"/"quit", or once ctx is
// done.
//
// Prompt & Commands
//
// The prompt shows the current view (from statusFn) and accepts:
//
//	Not logged in:
//	  - help             show available commands
//	  - login            authenticate
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - list [page]      load a page (the current one by default) and show it
//	  - next | prev      move one page forward or back
//	  - show             reprint the current page
//	  - edit <id>        edit a user on the current page
//	  - delete <id>      delete a user on the current page
//	  - logout           log out
//	  - exit | quit      leave the program
//
// Errors returned by command handlers are not printed here: the handlers
// report outcomes through notifications.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("ua %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in")
				continue
			}
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "logout", "list", "ls", "next", "n", "prev", "p", "show", "edit", "delete", "rm":
			if !a.isLoggedIn() {
				printlnFn(msgLoginFirst)
				continue
			}
			dispatchUsers(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func dispatchUsers(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "logout":
		_ = a.Logout(ctx)
	case "list", "ls":
		_ = a.List(ctx, args)
	case "next", "n":
		_ = a.Next(ctx)
	case "prev", "p":
		_ = a.Prev(ctx)
	case "show":
		_ = a.Show(ctx)
	case "edit":
		_ = a.Edit(ctx, args)
	case "delete", "rm":
		_ = a.Delete(ctx, args)
	}
}

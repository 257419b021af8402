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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	History(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Create(ctx context.Context) error
	Types(ctx context.Context) error
	Profile(ctx context.Context) error
}

// runREPL starts the read-eval-print loop of the Desa Bantuin CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
//	Signed out:
//	  - help                     show available commands
//	  - login                    sign in with phone number and password
//	  - register                 create an account
//	  - exit | quit              leave the program
//
//	Signed in:
//	  - help                     show available commands
//	  - home                     statistics and latest requests
//	  - history [k=v ...]        filtered request list
//	  - show <id>                request details
//	  - create                   file a new request
//	  - types                    list document types
//	  - profile                  signed-in user
//	  - logout                   sign out
//	  - exit | quit              leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("desa> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, history, show, create, types, profile, logout, exit")
			} else {
				printlnFn("Available commands: login, register, exit")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "login", "register":
			if a.isLoggedIn() {
				printlnFn("Already signed in, logout first")
				continue
			}
			if cmd == "login" {
				_ = a.Login(ctx)
			} else {
				_ = a.Register(ctx)
			}

		case "home", "history", "show", "create", "types", "profile", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "home":
				_ = a.Home(ctx)
			case "history":
				_ = a.History(ctx, args)
			case "show":
				_ = a.Show(ctx, args)
			case "create":
				_ = a.Create(ctx)
			case "types":
				_ = a.Types(ctx)
			case "profile":
				_ = a.Profile(ctx)
			case "logout":
				_ = a.Logout(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn and printlnFn are test seams for user-facing output.
var (
	printFn   = fmt.Print
	printlnFn = fmt.Println
)

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Sync(ctx context.Context) error
	Profile(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Cart(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Input prompts issued by commands read from the same reader, so the two
// never compete for buffered input.
//
//	Signed out:
//	  help, open <path>, register, login, whoami, exit | quit
//
//	Signed in:
//	  help, open <path>, whoami, profile, cart, sync, logout, exit | quit
//
// Command errors are printed and the loop continues. It returns on EOF,
// on "exit"/"quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("storefront %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <path>, whoami, profile, cart, sync, logout, exit")
			} else {
				printlnFn("Available commands: open <path>, register, login, whoami, exit")
			}

		case "open", "go":
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			cmdErr = a.Open(ctx, path)

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "sync":
			cmdErr = a.Sync(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "cart":
			cmdErr = a.Cart(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

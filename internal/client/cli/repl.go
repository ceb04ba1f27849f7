package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
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
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Gender(ctx context.Context, gender string) error
	Sort(ctx context.Context, field, direction string) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	GoToPage(ctx context.Context, page string) error
	Refresh(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const (
	helpAnonymous = "Available commands: register, login, help, exit"
	helpLoggedIn  = `Available commands:
  (l)ist                   show the current page
  search [text]            filter by species, island or name (no text clears)
  gender <all|male|female> filter by sex
  sort <field> [asc|desc]  fields: id, name, species, island, beakLengthMm,
                           beakDepthMm, flipperLengthMm, bodyMassG, sex
  (n)ext, (p)rev, page <n> move between pages
  refresh                  reload from the first page
  show <id>, edit <id>, delete <id>, add
  whoami, logout, help, exit`
)

// runREPL starts a simple read–eval–print loop for the penguin tracker CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Record commands are only accepted while
// logged in. Errors returned by handlers are printed and the loop goes on.
// The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("penguin %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			report(a.Register(ctx))
			continue

		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			if isRecordCommand(cmd) {
				printlnFn("Please log in first (type 'login' or 'register')")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))
		case "l", "list":
			report(a.List(ctx))
		case "search":
			report(a.Search(ctx, strings.Join(args, " ")))
		case "gender":
			if len(args) != 1 {
				printlnFn("Usage: gender <all|male|female>")
				continue
			}
			report(a.Gender(ctx, args[0]))
		case "sort":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: sort <field> [asc|desc]")
				continue
			}
			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			report(a.Sort(ctx, args[0], dir))
		case "n", "next":
			report(a.NextPage(ctx))
		case "p", "prev":
			report(a.PrevPage(ctx))
		case "page":
			if len(args) != 1 {
				printlnFn("Usage: page <n>")
				continue
			}
			report(a.GoToPage(ctx, args[0]))
		case "refresh":
			report(a.Refresh(ctx))
		case "show", "edit", "delete":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "show":
				report(a.Show(ctx, args[0]))
			case "edit":
				report(a.Edit(ctx, args[0]))
			case "delete":
				report(a.Delete(ctx, args[0]))
			}
		case "add":
			report(a.Add(ctx))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func isRecordCommand(cmd string) bool {
	switch cmd {
	case "logout", "whoami", "l", "list", "search", "gender", "sort",
		"n", "next", "p", "prev", "page", "refresh", "show", "edit", "delete", "add":
		return true
	}
	return false
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", describe(err))
	}
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddItem(ctx context.Context, args []string) error
	RemoveItem(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Clear(ctx context.Context) error
	Need(ctx context.Context, args []string) error
	Shop(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

const (
	helpAnonymous = "Commands: add, remove, list, clear, need, shop, status, register, login, exit"
	helpLoggedIn  = "Commands: add, remove, list, clear, need, shop, sync, status, logout, exit"
)

// runREPL reads commands from in until EOF, "exit" or "quit".
//
// The notebook works without an account, so kitchen commands are always
// available; register and login are offered until someone logs in, then
// sync and logout take their place. Handlers print their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gmk%s> ", statusFn()))
		line, err := readLine(in)
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
				printlnFn(helpAnonymous)
			}
		case "add":
			_ = a.AddItem(ctx, args)
		case "remove", "rm":
			_ = a.RemoveItem(ctx, args)
		case "list", "l":
			_ = a.List(ctx, args)
		case "clear":
			_ = a.Clear(ctx)
		case "need":
			_ = a.Need(ctx, args)
		case "shop":
			_ = a.Shop(ctx, args)
		case "status":
			_ = a.Status(ctx)
		case "register":
			if a.isLoggedIn() {
				printlnFn("Log out first.")
				continue
			}
			_ = a.Register(ctx)
		case "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in.")
				continue
			}
			_ = a.Login(ctx)
		case "sync":
			_ = a.Sync(ctx)
		case "logout":
			if !a.isLoggedIn() {
				printlnFn("Not logged in.")
				continue
			}
			_ = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

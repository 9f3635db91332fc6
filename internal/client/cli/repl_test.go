package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string, args []string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) AddItem(ctx context.Context, args []string) error {
	return f.record("add", args)
}
func (f *fakeExec) RemoveItem(ctx context.Context, args []string) error {
	return f.record("remove", args)
}
func (f *fakeExec) List(ctx context.Context, args []string) error { return f.record("list", args) }
func (f *fakeExec) Clear(ctx context.Context) error                { return f.record("clear", nil) }
func (f *fakeExec) Need(ctx context.Context, args []string) error  { return f.record("need", args) }
func (f *fakeExec) Shop(ctx context.Context, args []string) error  { return f.record("shop", args) }
func (f *fakeExec) Sync(ctx context.Context) error                 { return f.record("sync", nil) }
func (f *fakeExec) Status(ctx context.Context) error               { return f.record("status", nil) }

func capturePrints(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrints(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"help",
		"add fridge whole milk",
		"login",
		"help",
		"list",
		"rm fridge 1",
		"need eggs",
		"shop",
		"sync",
		"status",
		"clear",
		"foobar",
		"exit",
		"list",
	}, "\n")))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return " (status)" }, input)

	want := []string{
		"add fridge whole milk", "login", "list", "remove fridge 1",
		"need eggs", "shop", "sync", "status", "clear",
	}
	if strings.Join(exec.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_GuardsAccountCommands(t *testing.T) {
	lines := capturePrints(t)

	input := bufio.NewReader(strings.NewReader("logout\nlogin\nlogin\nregister\nquit\n"))
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input)

	if strings.Join(exec.calls, "|") != "login" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
	out := strings.Join(*lines, "\n")
	for _, s := range []string{"Not logged in.", "Already logged in.", "Log out first.", "Bye!"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	lines := capturePrints(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("help\n"))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, rdr("help\n"))

	out := strings.Join(*lines, "\n")
	if !strings.Contains(out, helpAnonymous) || !strings.Contains(out, helpLoggedIn) {
		t.Fatalf("help output:\n%s", out)
	}
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrints(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("list\n"))
	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

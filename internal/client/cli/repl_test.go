package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) List(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "list")
	return nil
}
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "show")
	return nil
}
func (f *fakeExec) Update(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "update")
	return nil
}
func (f *fakeExec) Favorite(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "fav")
	return nil
}
func (f *fakeExec) Unfavorite(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "unfav")
	return nil
}
func (f *fakeExec) Favorites(ctx context.Context) error {
	f.calls = append(f.calls, "favs")
	return nil
}
func (f *fakeExec) Share(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "share")
	return nil
}
func (f *fakeExec) Shares(ctx context.Context) error {
	f.calls = append(f.calls, "shares")
	return nil
}
func (f *fakeExec) Prefs(ctx context.Context) error {
	f.calls = append(f.calls, "prefs")
	return nil
}
func (f *fakeExec) LinkedIn(ctx context.Context) error {
	f.calls = append(f.calls, "linkedin")
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error {
	f.calls = append(f.calls, "users")
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"list status=New",
		"show 123",
		"fav 123",
		"favs",
		"whoami",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "list", "show", "fav", "favs", "whoami"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("show\nfav\nshare\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

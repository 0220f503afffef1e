package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/SuwethaV/bookreview/internal/client/api"
	"github.com/SuwethaV/bookreview/internal/client/state"
	"github.com/SuwethaV/bookreview/internal/client/view"
	"github.com/SuwethaV/bookreview/pkg/logger"
)

// matches pkg/errors: expired and revoked tokens share one code
const codeTokenExpired = 40102

var errNotLoggedIn = errors.New("not logged in: run `bookreview login` first")

// app is shared by every command. It is wired in the root PersistentPreRunE.
type app struct {
	v *viper.Viper

	client      *api.Client
	store       *state.Store
	sessionPath string

	in           *bufio.Reader
	out          io.Writer
	readPassword func(prompt string) (string, error)
}

func newApp(in io.Reader, out io.Writer) *app {
	a := &app{
		v:   viper.New(),
		in:  bufio.NewReader(in),
		out: out,
	}
	a.readPassword = a.readTerminalPassword
	return a
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "bookreview", "session.json")
}

// setup builds the client and restores the saved session. Every store
// mutation afterwards is written back to the session file.
func (a *app) setup() error {
	if _, err := logger.New(logger.Options{
		Level:  a.v.GetString("log_level"),
		Format: "console",
		Output: "stderr",
	}); err != nil {
		return err
	}

	a.sessionPath = a.v.GetString("session")
	a.store = state.NewStore()
	if err := a.store.Load(a.sessionPath); err != nil {
		return err
	}
	a.client = api.New(a.v.GetString("server"), api.WithToken(a.store.Token()))

	a.store.Subscribe(func() {
		if err := a.store.Save(a.sessionPath); err != nil {
			logrus.WithError(err).Warn("save session failed")
		}
	})
	return nil
}

// authed runs fn for a signed-in user. An expired access token is refreshed
// once; when the refresh is refused the local session is dropped.
func (a *app) authed(ctx context.Context, fn func() error) error {
	if a.store.User() == nil {
		return errNotLoggedIn
	}

	err := fn()
	if !api.IsCode(err, codeTokenExpired) || a.store.RefreshToken() == "" {
		return err
	}

	logrus.Debug("access token expired, refreshing")
	token, rerr := a.client.Refresh(ctx, a.store.RefreshToken())
	if rerr != nil {
		a.store.Logout()
		a.client.SetToken("")
		return fmt.Errorf("session expired, please log in again: %w", rerr)
	}
	a.store.SetToken(token)
	return fn()
}

// ========== prompts ==========

func (a *app) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}

// promptIfEmpty asks for value unless the flag already supplied it.
func (a *app) promptIfEmpty(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := a.prompt(label)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *app) confirm(question string) (bool, error) {
	answer, err := a.prompt(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// readTerminalPassword reads without echo when stdin is a terminal.
func (a *app) readTerminalPassword(prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return a.prompt(prompt)
	}
	fmt.Fprint(a.out, prompt)
	buf, err := term.ReadPassword(fd)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(a.out)
	return strings.TrimSpace(string(buf)), nil
}

// ========== rendering ==========

// render draws the current page with its chrome around body.
func (a *app) render(body func(io.Writer) error) error {
	route := a.store.Route()
	view.Header(a.out, route, a.store.User())
	if err := body(a.out); err != nil {
		return err
	}
	view.Footer(a.out, route)
	return nil
}

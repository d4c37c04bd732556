package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in as one of the reader accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("password") {
				p, err := readPassword(cmd, "Password: ")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = p
			}

			u, err := a.svc.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(u)
			}
			fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.DisplayName, u.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password; prompted for when omitted")
	return cmd
}

// readPassword prompts without echo when the command's input is a terminal,
// and otherwise reads one line from it.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return readLine(in)
	}
	fd := int(f.Fd())

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Signed out")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in reader",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, ok := a.svc.CurrentUser()
			if !ok {
				fmt.Fprintln(a.out, "Not signed in")
				return nil
			}
			if a.jsonOut {
				return a.printJSON(u)
			}
			fmt.Fprintf(a.out, "%s (%s), role %s\n", u.DisplayName, u.Username, u.Role)
			return nil
		},
	}
}

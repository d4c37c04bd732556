package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
	"github.com/bookshelfapp/bookshelf/internal/kv"
)

// runCLI executes one invocation against dataDir and returns stdout.
func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	base := []string{
		"--storage", "sqlite",
		"--data-path", dataDir,
		"--env-file", filepath.Join(dataDir, "missing.env"),
		"--log-level", "error",
	}

	return runCLIWith(t, strings.NewReader(""), append(base, args...)...)
}

func runCLIWith(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	a := newApp()
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetIn(in)
	a.root.SetArgs(args)

	err := a.execute(context.Background())
	return out.String(), err
}

func TestCLI_BrowseWithoutSignIn(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "books", "--genre", "сатира")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Equal(t, 4, strings.Count(out, "\n"), "header plus three satire books")

	out, err = runCLI(t, dir, "genres")
	require.NoError(t, err)
	assert.Equal(t, 30, strings.Count(out, "\n"))
}

func TestCLI_ProgressRequiresSignIn(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "read", "1", "10")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))
}

func TestCLI_SessionSurvivesInvocations(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "login", "user1", "--password", "password")
	require.NoError(t, err)
	assert.Contains(t, out, "Иван Петров")

	out, err = runCLI(t, dir, "read", "1", "112")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 112 of 224 (50%)")

	_, err = runCLI(t, dir, "note", "1", "12", "Письмо", "Татьяны")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "--json", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_books": 1`)
	assert.Contains(t, out, `"total_pages": 112`)

	out, err = runCLI(t, dir, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "p.12: Письмо Татьяны")

	_, err = runCLI(t, dir, "logout")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestCLI_LoginFailure(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "login", "user1", "--password", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, 3, exitCode(err))
}

func TestCLI_UnknownBook(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "show", "999")
	require.Error(t, err)
	assert.Equal(t, 4, exitCode(err))

	_, err = runCLI(t, t.TempDir(), "show", "abc")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 5, exitCode(domainerrors.RateLimited("slow down")))
	assert.Equal(t, 2, exitCode(domainerrors.Validationf("bad page %d", -1)))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "Неверное имя пользователя или пароль",
		formatError(domainerrors.InvalidCredentials("Неверное имя пользователя или пароль")))
	assert.Equal(t, "Error: disk full", formatError(errors.New("disk full")))
}

func TestCLI_BackupAndRestore(t *testing.T) {
	src := t.TempDir()

	_, err := runCLI(t, src, "login", "user2", "--password", "password")
	require.NoError(t, err)
	_, err = runCLI(t, src, "read", "5", "40")
	require.NoError(t, err)

	archive := filepath.Join(t.TempDir(), "reading.bookshelf.zip")
	out, err := runCLI(t, src, "backup", "create", "--output", archive)
	require.NoError(t, err)
	assert.Contains(t, out, "1 readers, 1 books")

	dst := t.TempDir()
	out, err = runCLI(t, dst, "backup", "restore", archive, "--mode", "full")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 readers, 1 books")

	_, err = runCLI(t, dst, "login", "user2", "--password", "password")
	require.NoError(t, err)
	out, err = runCLI(t, dst, "--json", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_pages": 40`)
}

func TestCLI_FailedCommandReleasesStorage(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLIWith(t, strings.NewReader(""),
		"--storage", "badger",
		"--data-path", dir,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "error",
		"read", "1", "10")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))

	store, err := kv.OpenBadger(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestCLI_LoginReadsPipedPassword(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLIWith(t, strings.NewReader("pass word\n"),
		"--storage", "sqlite",
		"--data-path", dir,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "error",
		"login", "user1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.NotContains(t, out, "Signed in")

	out, err = runCLIWith(t, strings.NewReader("password\n"),
		"--storage", "sqlite",
		"--data-path", dir,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--log-level", "error",
		"login", "user1")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Иван Петров")
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trailing newline", input: "secret\n", want: "secret"},
		{name: "inner space kept", input: "two words\r\n", want: "two words"},
		{name: "no newline", input: "last", want: "last"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readLine(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := readLine(strings.NewReader(""))
	assert.ErrorIs(t, err, io.EOF)
}

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	got, err := Prompt(bufio.NewReader(strings.NewReader("  jo@example.com \n")), &out, "Email")
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", got)
	assert.Equal(t, "Email: ", out.String())
}

func TestPrompt_LastLineWithoutNewline(t *testing.T) {
	got, err := Prompt(bufio.NewReader(strings.NewReader("tail")), &bytes.Buffer{}, "x")
	require.NoError(t, err)
	assert.Equal(t, "tail", got)
}

func TestPrompt_EmptyInput(t *testing.T) {
	_, err := Prompt(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, "x")
	assert.Error(t, err)
}

func stubTerminal(t *testing.T, tty bool, pw func(int) ([]byte, error)) {
	t.Helper()
	oldTTY, oldPW := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = oldTTY, oldPW })
	isTerminal = func(int) bool { return tty }
	readPassword = pw
}

func TestPromptPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return []byte("s3cret!"), nil })

	var out bytes.Buffer
	got, err := PromptPassword(bufio.NewReader(strings.NewReader("ignored\n")), &out, "Password")
	require.NoError(t, err)
	assert.Equal(t, "s3cret!", got)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPromptPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	_, err := PromptPassword(bufio.NewReader(strings.NewReader("")), &bytes.Buffer{}, "Password")
	assert.Error(t, err)
}

func TestPromptPassword_Piped(t *testing.T) {
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on piped input")
		return nil, nil
	})

	got, err := PromptPassword(bufio.NewReader(strings.NewReader("piped\n")), &bytes.Buffer{}, "Password")
	require.NoError(t, err)
	assert.Equal(t, "piped", got)
}

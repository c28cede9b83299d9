package iocli

import (
	"bufio"
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBufferedStdio создает Stdio поверх буферов вместо терминала
func newBufferedStdio(input string) (*Stdio, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Stdio{
		in:  bufio.NewReader(strings.NewReader(input)),
		out: out,
		fd:  -1,
	}, out
}

func TestNewStdio(t *testing.T) {
	stdio := NewStdio()
	assert.NotNil(t, stdio)
}

func TestPrintlnPrintfWrite(t *testing.T) {
	stdio, out := newBufferedStdio("")

	stdio.Println("hello", "world")
	stdio.Printf("test %d %s\n", 1, "abc")
	n, err := stdio.Write([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "hello world\ntest 1 abc\nraw", out.String())
}

func TestReadInput(t *testing.T) {
	stdio, out := newBufferedStdio("  alice \nsecond line\n")

	got, err := stdio.ReadInput("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Username: ", out.String())

	// Буфер сохраняется между вызовами
	got, err = stdio.ReadInput("Next: ")
	require.NoError(t, err)
	assert.Equal(t, "second line", got)
}

func TestReadInput_WithoutTrailingNewline(t *testing.T) {
	stdio, _ := newBufferedStdio("last")

	got, err := stdio.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = stdio.ReadInput("> ")
	assert.Error(t, err)
}

func TestReadPassword_NotTerminal(t *testing.T) {
	stdio, out := newBufferedStdio("password123\n")

	got, err := stdio.ReadPassword("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "password123", got)
	assert.Equal(t, "Password: ", out.String())
}

func TestReadInput_FromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	// Пишем в pipe в отдельной горутине, имитируя ввод пользователя
	go func() {
		_, _ = w.Write([]byte("user input\n"))
		_ = w.Close()
	}()

	oldStdin := os.Stdin
	defer func() { os.Stdin = oldStdin }()
	os.Stdin = r

	stdio := NewStdio()
	got, err := stdio.ReadPassword("")
	require.NoError(t, err)
	assert.Equal(t, "user input", got)
}

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ttyReader pretends to be a terminal on fd 42.
type ttyReader struct {
	*strings.Reader
}

func (ttyReader) Fd() uintptr { return 42 }

func stubTerminal(t *testing.T, pw string, err error) *int {
	t.Helper()
	oldRead, oldIs := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = oldRead, oldIs })

	calls := new(int)
	isTerminal = func(fd int) bool { return fd == 42 }
	readPassword = func(fd int) ([]byte, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return []byte(pw), nil
	}
	return calls
}

func TestPrompterLine(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  a@b.co \n"), &out)

	got, err := p.line("Email")
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got)
	assert.Equal(t, "Email: ", out.String())
}

func TestPrompterLine_EOF(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("last"), &out)

	got, err := p.line("Email")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.line("Email")
	assert.Error(t, err)
}

func TestPrompterSecret_NotATerminal(t *testing.T) {
	calls := stubTerminal(t, "unused", nil)
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("Abcd123!\n"), &out)

	got, err := p.secret("Password")
	require.NoError(t, err)
	assert.Equal(t, "Abcd123!", got)
	assert.Zero(t, *calls)
}

func TestPrompterSecret_Terminal(t *testing.T) {
	calls := stubTerminal(t, "Abcd123!", nil)
	var out bytes.Buffer
	p := newPrompter(ttyReader{strings.NewReader("")}, &out)

	got, err := p.secret("Password")
	require.NoError(t, err)
	assert.Equal(t, "Abcd123!", got)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "Password: \n", out.String())
}

func TestPrompterSecret_TerminalError(t *testing.T) {
	stubTerminal(t, "", errors.New("boom"))
	var out bytes.Buffer
	p := newPrompter(ttyReader{strings.NewReader("")}, &out)

	_, err := p.secret("Password")
	assert.EqualError(t, err, "boom")
}

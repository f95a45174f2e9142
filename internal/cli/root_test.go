package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "play", cmd.Use)
	assert.Contains(t, cmd.Long, "pair")
}

func TestPlayFlags(t *testing.T) {
	cmd := NewRootCommand()

	mode := cmd.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "m", mode.Shorthand)
	assert.Equal(t, "easy", mode.DefValue)

	seed := cmd.Flags().Lookup("seed")
	require.NotNil(t, seed)
	assert.Equal(t, "0", seed.DefValue)

	require.NotNil(t, cmd.Flags().Lookup("difficulties"))
}

func TestPlayCommandQuits(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("q\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--mode", "hard", "--seed", "7"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Mode: hard")
	assert.Contains(t, out.String(), "  ** ")
	assert.Contains(t, out.String(), "Quit.")
}

func TestPlayCommandUnknownMode(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--mode", "nightmare"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nightmare")
}

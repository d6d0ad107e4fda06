package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("  Bob \nCarol"), &out)

	answer, err := p.ask("name? ")
	require.NoError(t, err)
	assert.Equal(t, "Bob", answer)

	// A final line without newline is still an answer.
	answer, err = p.ask("again? ")
	require.NoError(t, err)
	assert.Equal(t, "Carol", answer)

	_, err = p.ask("more? ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "name? again? more? ", out.String())
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{" y \n", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		p := newPrompter(strings.NewReader(tt.input), io.Discard)
		got, err := p.confirm("sure? ")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "confirm(%q)", tt.input)
	}
}

package docparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PlainText(t *testing.T) {
	p := NewTextParser()

	text, err := p.Parse("resume.txt", []byte("Jane  Doe\r\n\r\n\r\nPython   developer\n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nPython developer", text)
}

func TestParse_RejectsUnsupportedExtension(t *testing.T) {
	p := NewTextParser()

	_, err := p.Parse("resume.pdf", []byte("%PDF-1.4"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = p.Parse("noextension", []byte("text"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_RejectsInvalidUTF8(t *testing.T) {
	p := NewTextParser()

	_, err := p.Parse("resume.txt", []byte{0xff, 0xfe, 0x00})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

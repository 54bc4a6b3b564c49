package wire

import (
	"bufio"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter("rec|", '|')
	w.Str("alice")
	w.Int(big.NewInt(12345))
	line := strings.TrimSuffix(w.String(), "\n")

	r, err := ParseRecord(line, "rec|", '|')
	require.NoError(t, err)
	name, err := r.Str()
	require.NoError(t, err)
	require.Equal(t, "alice", name)
	n, err := r.Int()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(12345), n)
	require.True(t, r.Done())
}

func TestParseRecordRejectsWrongMagicOrMissingDelim(t *testing.T) {
	_, err := ParseRecord("oth|alice|", "rec|", '|')
	require.ErrorIs(t, err, ErrMalformed)

	_, err = ParseRecord("rec|alice", "rec|", '|')
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReaderIntRejectsPartialField(t *testing.T) {
	r, err := ParseRecord("rec|12a!|", "rec|", '|')
	require.NoError(t, err)
	_, err = r.Int()
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReaderNextExhausted(t *testing.T) {
	r, err := ParseRecord("rec|", "rec|", '|')
	require.NoError(t, err)
	require.True(t, r.Done())
	_, err = r.Str()
	require.ErrorIs(t, err, ErrMalformed)
}

func TestReadLineStripsNewline(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("rec|alice|\n"))
	line, err := ReadLine(br)
	require.NoError(t, err)
	require.Equal(t, "rec|alice|", line)
}

func TestMagicOf(t *testing.T) {
	require.Equal(t, "rec|", MagicOf("rec|alice|", '|'))
	require.Equal(t, "", MagicOf("noDelimiterHere", '|'))
}

func TestErrorfWrapsMalformed(t *testing.T) {
	err := Errorf("bad field %d", 3)
	require.ErrorIs(t, err, ErrMalformed)
}

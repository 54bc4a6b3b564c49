// Package wire implements the canonical textual serialisation described in
// spec.md §4.8: a `magic|field|field|…|` grammar, with a `magic^field^…^`
// variant for stack-level containers, built over a base-36 integer
// alphabet. Parsing is strict — early returns on the first malformed field,
// no partial records, no exceptions — the same boolean-via-exception shape
// of the original code translated into straight-line Go per spec.md §9.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// IOBase is TMCG_MPZ_IO_BASE: the integer alphabet used for every numeric
// field on the wire.
const IOBase = 36

// ErrMalformed is returned by every Parse function on any grammar
// violation: wrong magic, missing field, trailing garbage, or an integer
// field that does not parse in full.
var ErrMalformed = errors.New("wire: malformed record")

// Writer accumulates fields of one record behind a chosen delimiter.
type Writer struct {
	sb    strings.Builder
	magic string
	delim byte
}

// NewWriter starts a record with the given magic tag and field delimiter
// ('|' for most records, '^' for stack-level containers).
func NewWriter(magic string, delim byte) *Writer {
	w := &Writer{magic: magic, delim: delim}
	w.sb.WriteString(magic)
	return w
}

// Int appends a big integer field in base IOBase.
func (w *Writer) Int(n *big.Int) *Writer {
	w.sb.WriteString(n.Text(IOBase))
	w.sb.WriteByte(w.delim)
	return w
}

// Str appends an opaque string field (never containing the delimiter).
func (w *Writer) Str(s string) *Writer {
	w.sb.WriteString(s)
	w.sb.WriteByte(w.delim)
	return w
}

// Raw appends an already-serialised sub-record, minus its terminating
// newline and without an additional trailing delimiter (used to splice a
// `nzk^…^` block inside a `sec|…|` record).
func (w *Writer) Raw(s string) *Writer {
	w.sb.WriteString(strings.TrimSuffix(s, "\n"))
	return w
}

// String returns the finished record, terminated with '\n'.
func (w *Writer) String() string {
	return w.sb.String() + "\n"
}

// Reader parses the fields of one record behind a chosen delimiter.
type Reader struct {
	fields []string
	pos    int
}

// ParseRecord splits line into a magic tag and its delimited fields, and
// confirms the magic matches. A single trailing newline, as written by
// Writer.String, is ignored. A line holding only the magic is a record
// with no fields.
func ParseRecord(line, magic string, delim byte) (*Reader, error) {
	line = strings.TrimSuffix(line, "\n")
	if !strings.HasPrefix(line, magic) {
		return nil, ErrMalformed
	}
	rest := line[len(magic):]
	if rest == "" {
		return &Reader{}, nil
	}
	if rest[len(rest)-1] != delim {
		return nil, ErrMalformed
	}
	rest = rest[:len(rest)-1]
	var fields []string
	if rest != "" {
		fields = strings.Split(rest, string(delim))
	}
	return &Reader{fields: fields}, nil
}

// Int parses the next field as a base-IOBase integer. It fails if the field
// does not parse in full (no trailing characters), matching spec.md §4.8's
// strictness requirement.
func (r *Reader) Int() (*big.Int, error) {
	f, err := r.next()
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(f, IOBase)
	if !ok {
		return nil, ErrMalformed
	}
	return n, nil
}

// Str returns the next field verbatim.
func (r *Reader) Str() (string, error) {
	return r.next()
}

func (r *Reader) next() (string, error) {
	if r.pos >= len(r.fields) {
		return "", ErrMalformed
	}
	f := r.fields[r.pos]
	r.pos++
	return f, nil
}

// Remaining returns the fields not yet consumed.
func (r *Reader) Remaining() []string {
	return r.fields[r.pos:]
}

// Done reports whether every field has been consumed.
func (r *Reader) Done() bool {
	return r.pos == len(r.fields)
}

// ReadLine reads one newline-terminated record from a stream, stripping the
// trailing newline. Resource-limit checking (TMCG_MAX_STACK_CHARS) is the
// caller's responsibility since the limit is record-specific.
func ReadLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\n"), nil
}

// MagicOf returns the magic tag at the start of line, used by a dispatcher
// that does not yet know which record type is arriving.
func MagicOf(line string, delim byte) string {
	i := strings.IndexByte(line, delim)
	if i < 0 {
		return ""
	}
	return line[:i+1]
}

// Errorf wraps ErrMalformed with context, kept distinguishable from it via
// errors.Is.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMalformed)
}

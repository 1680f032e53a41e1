package message

import (
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

// reader pops fields in order and keeps the first failure.
type reader struct {
	msg string
	s   *bits.Seq
	err error
}

func newReader(msg string, s *bits.Seq) *reader {
	if s == nil {
		s = bits.New()
	}
	return &reader{msg: msg, s: s}
}

func (r *reader) fail(name string, err error) {
	if r.err == nil {
		r.err = &FieldError{Message: r.msg, Field: name, Err: err}
	}
}

func (r *reader) pop(name string, n int) *bits.Seq {
	return r.popWidth(name, bits.Fixed(n))
}

func (r *reader) popWidth(name string, w bits.Width) *bits.Seq {
	if r.err != nil {
		return nil
	}
	f, err := r.s.PopWidth(w)
	if err != nil {
		r.fail(name, err)
		return nil
	}
	return f
}

func (r *reader) unsigned(name string, n int) uint64 {
	f := r.pop(name, n)
	if f == nil {
		return 0
	}
	return field.DecodeUint(f)
}

func (r *reader) signed(name string, n int) int64 {
	f := r.pop(name, n)
	if f == nil {
		return 0
	}
	return field.DecodeInt(f)
}

func (r *reader) uintLE(name string, n int) uint64 {
	f := r.pop(name, n)
	if f == nil {
		return 0
	}
	return field.DecodeUintLE(f)
}

func (r *reader) flag(name string) bool {
	f := r.pop(name, 1)
	if f == nil {
		return false
	}
	return field.DecodeBool(f)
}

func (r *reader) bytes(name string, n int) []byte {
	f := r.pop(name, n*8)
	if f == nil {
		return nil
	}
	return f.Bytes()
}

func (r *reader) text(name string, n int) string {
	f := r.pop(name, n*8)
	if f == nil {
		return ""
	}
	return field.DecodeText(f)
}

func (r *reader) skip(name string, n int) {
	r.pop(name, n)
}

func (r *reader) rest(name string) []byte {
	f := r.popWidth(name, bits.Remaining())
	if f == nil {
		return nil
	}
	return f.Bytes()
}

func readEnum[E field.Enum](r *reader, name string, n int) E {
	f := r.pop(name, n)
	if f == nil {
		return 0
	}
	e, err := field.DecodeEnum[E](f)
	if err != nil {
		r.fail(name, err)
	}
	return e
}

// done reports the first field failure, or ErrDataTooLong if bits remain.
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if n := r.s.Len(); n != 0 {
		return fmt.Errorf("%w: %s has %d trailing bits", ErrDataTooLong, r.msg, n)
	}
	return nil
}

// writer appends encoded fields in order and keeps the first failure.
type writer struct {
	msg  string
	name string
	s    *bits.Seq
	err  error
}

func newWriter(msg string) *writer {
	return &writer{msg: msg, s: bits.New()}
}

// at names the next field so add can attribute its error.
func (w *writer) at(name string) *writer {
	w.name = name
	return w
}

func (w *writer) add(f *bits.Seq, err error) {
	if w.err != nil {
		return
	}
	if err != nil {
		w.err = &FieldError{Message: w.msg, Field: w.name, Err: err}
		return
	}
	w.s.Append(f)
}

func (w *writer) put(f *bits.Seq) {
	w.add(f, nil)
}

func (w *writer) fail(err error) {
	w.add(nil, err)
}

func (w *writer) result() (*bits.Seq, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.s, nil
}

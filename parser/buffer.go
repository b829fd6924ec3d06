package parser

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// buffer is the read cursor shared by the grammar rules. Rules that fail
// may leave index anywhere; the caller restores it with reset.
type buffer struct {
	data  []byte
	index int
}

func newBuffer(input []byte) *buffer {
	return &buffer{data: input}
}

func (b *buffer) eof() bool { return b.index >= len(b.data) }

func (b *buffer) mark() int { return b.index }

func (b *buffer) reset(pos int) { b.index = pos }

// peek decodes the rune at the cursor. It returns utf8.RuneError with a
// width of 1 for invalid bytes and a width of 0 at end of input.
func (b *buffer) peek() (rune, int) {
	if b.eof() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(b.data[b.index:])
}

// consume advances past c if it is the next byte.
func (b *buffer) consume(c byte) bool {
	if b.eof() || b.data[b.index] != c {
		return false
	}
	b.index++
	return true
}

// takeWhile returns the maximal run of runes satisfying pred.
func (b *buffer) takeWhile(pred func(rune) bool) []byte {
	start := b.index
	for !b.eof() {
		r, width := b.peek()
		if !pred(r) {
			break
		}
		b.index += width
	}
	return b.data[start:b.index]
}

// takeUntil returns the bytes up to the next c and leaves the cursor on c.
// It reports false when c does not occur before the end of input.
func (b *buffer) takeUntil(c byte) ([]byte, bool) {
	n := bytes.IndexByte(b.data[b.index:], c)
	if n < 0 {
		return nil, false
	}
	run := b.data[b.index : b.index+n]
	b.index += n
	return run, true
}

// skipSpace absorbs whitespace between tokens, newlines included.
func (b *buffer) skipSpace() {
	b.takeWhile(unicode.IsSpace)
}

// skipInlineSpace absorbs whitespace up to, but not including, a newline.
func (b *buffer) skipInlineSpace() {
	b.takeWhile(isInlineSpace)
}

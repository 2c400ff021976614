package lang

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/lispfront/lang/token"
)

// Key is the content address of a token sequence.
type Key struct {
	hi, lo uint64
}

// String returns the key as 32 lowercase hexadecimal digits.
func (k Key) String() string {
	return fmt.Sprintf("%016x%016x", k.hi, k.lo)
}

// IsZero reports whether k is the zero key.
func (k Key) IsZero() bool { return k.hi == 0 && k.lo == 0 }

// Hash computes the content key of tokens.
//
// Every token contributes, in order: its kind tag (1 byte), the byte length
// of its lexeme (8 bytes little-endian), the lexeme bytes, its line (8 bytes
// little-endian), and its column (8 bytes little-endian). The digest is the
// 128-bit XXH3 of that encoding, so identical sequences (positions included)
// always share a key regardless of where they came from.
func Hash(tokens []token.Token) Key {
	size := 0
	for _, t := range tokens {
		size += 1 + 8 + len(t.Lexeme) + 8 + 8
	}

	buf := make([]byte, 0, size)

	for _, t := range tokens {
		buf = append(buf, t.Kind.Tag())
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(t.Lexeme)))
		buf = append(buf, t.Lexeme...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Line))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(t.Column))
	}

	sum := xxh3.Hash128(buf)

	return Key{hi: sum.Hi, lo: sum.Lo}
}

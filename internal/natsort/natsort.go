// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package natsort orders file names the way a person reads them: runs of
// digits compare as numbers and the remaining text compares case-folded,
// so "page2" sorts before "page10".
package natsort

import (
	"sort"
	"strings"
)

// Key is the parsed form of a name. Tokens alternate text and digits,
// always starting and ending with a (possibly empty) text token, so tokens
// at the same index in two keys are of the same kind.
type Key []string

// NewKey splits s on runs of ASCII digits. Text tokens are lower-cased;
// digit tokens are kept verbatim and compared numerically.
func NewKey(s string) Key {
	var k Key
	var b strings.Builder
	inDigits := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		d := isDigit(c)
		if d != inDigits {
			k = append(k, token(b.String(), inDigits))
			b.Reset()
			inDigits = d
		}
		b.WriteByte(c)
	}
	k = append(k, token(b.String(), inDigits))
	if inDigits {
		k = append(k, "")
	}
	return k
}

func token(s string, digits bool) string {
	if digits {
		return s
	}
	return strings.ToLower(s)
}

// Compare returns -1, 0 or +1 ordering a against b.
func (a Key) Compare(b Key) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigits(a[i], b[i])
		} else {
			c = strings.Compare(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// compareDigits compares two digit runs by numeric value without parsing,
// so runs longer than an int64 still order correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Compare orders two names naturally. Names whose keys are equal (such as
// "A1" and "a1", or "01" and "1") fall back to byte order so the result is
// a total order.
func Compare(a, b string) int {
	if c := NewKey(a).Compare(NewKey(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts names in place in natural order.
func Strings(names []string) {
	Sort(names, func(s string) string { return s })
}

// Sort orders items in place by the natural order of name(item). Keys are
// computed once per item.
func Sort[T any](items []T, name func(T) string) {
	type keyed struct {
		item T
		raw  string
		key  Key
	}
	ks := make([]keyed, len(items))
	for i, it := range items {
		n := name(it)
		ks[i] = keyed{item: it, raw: n, key: NewKey(n)}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if c := ks[i].key.Compare(ks[j].key); c != 0 {
			return c < 0
		}
		return ks[i].raw < ks[j].raw
	})
	for i := range ks {
		items[i] = ks[i].item
	}
}

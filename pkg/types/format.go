// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strings"
)

// Format names a preset set of image file extensions.
type Format string

const (
	FormatJPEG Format = "jpg"
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
	FormatAll  Format = "all"
)

// formatPresets maps each preset to its suffixes, in the order they are listed.
var formatPresets = map[Format][]string{
	FormatJPEG: {".jpg", ".jpeg"},
	FormatWebP: {".webp"},
	FormatPNG:  {".png"},
	FormatAll:  {".jpg", ".jpeg", ".webp", ".png"},
}

// formatAliases accepts the numbered menu choices and common spellings.
var formatAliases = map[string]Format{
	"1":    FormatJPEG,
	"jpeg": FormatJPEG,
	"2":    FormatWebP,
	"3":    FormatPNG,
	"4":    FormatAll,
	"any":  FormatAll,
}

// ParseFormat resolves a preset name or alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := formatPresets[Format(key)]; ok {
		return Format(key), nil
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want one of %s)",
		ErrInvalidConfig, s, strings.Join(FormatNames(), ", "))
}

// Extensions returns the suffixes for f. An empty Format means no preset.
func (f Format) Extensions() ([]string, error) {
	if f == "" {
		return nil, nil
	}
	p, err := ParseFormat(string(f))
	if err != nil {
		return nil, err
	}
	return append([]string(nil), formatPresets[p]...), nil
}

// FormatNames returns the canonical preset names in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(formatPresets))
	for f := range formatPresets {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
// It returns "" for blank input.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || ext == "." {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MergeExtensions normalizes and concatenates the given lists, dropping
// blanks and duplicates while keeping first-seen order.
func MergeExtensions(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, e := range list {
			n := NormalizeExtension(e)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

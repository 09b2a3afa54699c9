package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// bracketed matches one innermost bracketed segment, ASCII or full-width.
var bracketed = regexp.MustCompile(
	`\([^()]*\)|\[[^\[\]]*\]|\{[^{}]*\}|<[^<>]*>` +
		`|（[^（）]*）|［[^［］]*］|｛[^｛｝]*｝|【[^【】]*】|〔[^〔〕]*〕` +
		`|〈[^〈〉]*〉|《[^《》]*》|「[^「」]*」|『[^『』]*』`,
)

const bracketRunes = "()[]{}<>（）［］｛｝【】〔〕〈〉《》「」『』"

// Markers left behind by indented ingredient lists ("L 설탕", "ㄴ 소금").
var leadingMarkers = []string{"l ", "ㄴ "}

// Normalize lowercases name, drops bracketed qualifiers and tree-drawing
// glyphs, strips indentation markers and collapses whitespace.
func Normalize(name string) string {
	s := strings.ToLower(name)
	for {
		next := bracketed.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(bracketRunes, r):
			return ' '
		case isTreeGlyph(r):
			return ' '
		}
		return r
	}, s)
	s = collapseSpaces(s)
	for _, marker := range leadingMarkers {
		if strings.HasPrefix(s, marker) {
			s = strings.TrimSpace(strings.TrimPrefix(s, marker))
			break
		}
	}
	return s
}

// Box Drawing block: └ ├ ─ │ ┗ ┣ and friends.
func isTreeGlyph(r rune) bool {
	return r >= 0x2500 && r <= 0x257F
}

func collapseSpaces(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Keywords splits an already normalized name into significant tokens.
func (m *Matcher) Keywords(normalized string) []string {
	fields := strings.Fields(normalized)
	keywords := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) <= 1 {
			continue
		}
		if _, stop := m.stopWords[field]; stop {
			continue
		}
		keywords = append(keywords, field)
	}
	return keywords
}

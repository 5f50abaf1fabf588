// Package lookup answers descriptive questions about commodity codes from the
// Combined Nomenclature table: what a code means, which codes mention a word,
// which codes sit in an HS chapter.
//
// Invalid input is logged and reported through the boolean result rather than
// an error, and an unknown code yields a placeholder entry, so reporting code
// never has to stop on a missing description.
package lookup

import (
	"fmt"
	"strings"
	"unicode"

	"competitors/logger"
)

// PlaceholderUnit is the unit of a synthesized "not found" entry.
const PlaceholderUnit = "unk"

// Entry is one row of the nomenclature.
type Entry struct {
	Code        string `json:"code"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Found       bool   `json:"found"`
}

// Placeholder returns the entry reported for a code missing from the table.
func Placeholder(code string) Entry {
	return Entry{
		Code:        code,
		Unit:        PlaceholderUnit,
		Description: fmt.Sprintf("%s not found", code),
	}
}

// Table is an in-memory nomenclature. It is read-only once built.
type Table struct {
	entries []Entry
}

// FromEntries builds a table, normalizing every code with MakeCN8.
func FromEntries(entries []Entry) *Table {
	t := &Table{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		e.Code = MakeCN8(e.Code)
		e.Found = true
		t.entries = append(t.entries, e)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// MakeCN8 restores the 8 character form of a code that lost its leading zero
// (7 characters), pads a single digit, and widens a bare 2 digit chapter to
// chapter + "000000". Anything else is returned unchanged.
func MakeCN8(code string) string {
	switch len(code) {
	case 7:
		return "0" + code
	case 1:
		return "0" + code
	case 2:
		return code + "000000"
	default:
		return code
	}
}

// ByCode returns the entries for an 8 digit code (7 digits are zero padded).
// An unknown code yields a single placeholder entry. Codes of any other length
// are invalid: the error is logged and ok is false.
func (t *Table) ByCode(code string) (entries []Entry, ok bool) {
	if len(code) != 7 && len(code) != 8 {
		logger.Error(logger.StatusChk, "invalid CN code %q supplied to lookup by code", code)
		return nil, false
	}
	if len(code) == 7 {
		code = "0" + code
	}

	for _, e := range t.entries {
		if strings.HasPrefix(e.Code, code) {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return []Entry{Placeholder(code)}, true
	}
	return entries, true
}

// ByText returns entries whose description contains term, ignoring case. The
// term must be a single alphanumeric word; anything else is logged and ok is
// false.
func (t *Table) ByText(term string) (entries []Entry, ok bool) {
	if !isAlnum(term) {
		logger.Error(logger.StatusChk, "invalid search string %q", term)
		return nil, false
	}
	logger.Debug(logger.StatusChk, "Searching for %s", term)

	term = strings.ToLower(term)
	for _, e := range t.entries {
		if strings.Contains(strings.ToLower(e.Description), term) {
			entries = append(entries, e)
		}
	}
	return entries, true
}

// ByChapter returns the entries of a one or two digit HS chapter.
func (t *Table) ByChapter(chapter string) (entries []Entry, ok bool) {
	if len(chapter) == 0 || len(chapter) > 2 {
		logger.Error(logger.StatusChk, "invalid HS chapter %q", chapter)
		return nil, false
	}
	if len(chapter) == 1 {
		chapter = "0" + chapter
	}

	for _, e := range t.entries {
		if strings.HasPrefix(e.Code, chapter) {
			entries = append(entries, e)
		}
	}
	return entries, true
}

// Describe returns the best entry for code: an exact hit, else the entry of its
// 6 digit HS heading when the table carries headings, else a placeholder.
func (t *Table) Describe(code string) Entry {
	entries, ok := t.ByCode(code)
	if ok && entries[0].Found {
		return entries[0]
	}
	if len(code) >= 6 {
		heading := code[:6]
		for _, e := range t.entries {
			if e.Code == heading {
				return e
			}
		}
	}
	return Placeholder(code)
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

package rules

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTable = errors.New("invalid rule table")

// Entry is one row of the rule table. An entry without keywords is the
// fallback and is only chosen when no other entry matches.
type Entry struct {
	Name     string
	Keywords []string
	Response string
	Priority int
}

func (e Entry) IsFallback() bool {
	return len(e.Keywords) == 0
}

// matches reports whether any keyword is a substring of the normalized
// message. Short keywords can match inside longer words.
func (e Entry) matches(normalized string) bool {
	for _, keyword := range e.Keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// Table is an immutable, ordered set of entries with exactly one fallback.
// Table order breaks priority ties: the earlier entry wins.
type Table struct {
	entries  []Entry
	fallback int
}

func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: table has no entries", ErrInvalidTable)
	}

	table := &Table{
		entries:  make([]Entry, 0, len(entries)),
		fallback: -1,
	}

	for i, entry := range entries {
		if strings.TrimSpace(entry.Response) == "" {
			return nil, fmt.Errorf("%w: entry %d (%q) has an empty response", ErrInvalidTable, i, entry.Name)
		}

		keywords := make([]string, 0, len(entry.Keywords))
		for _, keyword := range entry.Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				return nil, fmt.Errorf("%w: entry %d (%q) has a blank keyword", ErrInvalidTable, i, entry.Name)
			}
			keywords = append(keywords, keyword)
		}
		entry.Keywords = keywords

		if entry.IsFallback() {
			if table.fallback >= 0 {
				return nil, fmt.Errorf("%w: entries %d and %d both have no keywords", ErrInvalidTable, table.fallback, i)
			}
			table.fallback = i
		}

		table.entries = append(table.entries, entry)
	}

	if table.fallback < 0 {
		return nil, fmt.Errorf("%w: no fallback entry (an entry without keywords) found", ErrInvalidTable)
	}

	fallbackPriority := table.entries[table.fallback].Priority
	for i, entry := range table.entries {
		if i != table.fallback && entry.Priority <= fallbackPriority {
			return nil, fmt.Errorf("%w: entry %d (%q) has priority %d, must be greater than fallback priority %d", ErrInvalidTable, i, entry.Name, entry.Priority, fallbackPriority)
		}
	}

	return table, nil
}

// Select returns the highest priority entry matching message, or the
// fallback when nothing matches.
func (t *Table) Select(message string) Entry {
	normalized := strings.ToLower(strings.TrimSpace(message))

	best := -1
	for i, entry := range t.entries {
		if entry.IsFallback() {
			continue
		}
		if best >= 0 && entry.Priority <= t.entries[best].Priority {
			continue
		}
		if entry.matches(normalized) {
			best = i
		}
	}

	if best < 0 {
		return t.entries[t.fallback]
	}
	return t.entries[best]
}

func (t *Table) SelectResponse(message string) string {
	return t.Select(message).Response
}

func (t *Table) Fallback() Entry {
	return t.entries[t.fallback]
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table rows in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, entry := range t.entries {
		entry.Keywords = append([]string(nil), entry.Keywords...)
		out[i] = entry
	}
	return out
}

// Source yields the table that should answer the next message.
type Source interface {
	Table() *Table
}

type staticSource struct {
	table *Table
}

func (s staticSource) Table() *Table {
	return s.table
}

func Static(table *Table) Source {
	return staticSource{table: table}
}

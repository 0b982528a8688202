package domain

import (
	"sort"
	"strings"
)

// ZoneEntry is one author-provided coverage row: a street spelling and an
// inclusive house-number range. Duplicates and overlaps are expected.
type ZoneEntry struct {
	Street string
	From   int
	To     int
}

// Range is an inclusive house-number interval.
type Range struct {
	From int
	To   int
}

// Contains reports whether n lies inside the range, bounds included.
func (r Range) Contains(n int) bool {
	return n >= r.From && n <= r.To
}

// StreetRanges holds the merged ranges for one normalized street name.
type StreetRanges struct {
	Street string
	Ranges []Range
}

// covers reports whether n falls in one of the merged ranges. Ranges are
// sorted and disjoint, so a binary search on the upper bound is enough.
func (s StreetRanges) covers(n int) bool {
	i := sort.Search(len(s.Ranges), func(i int) bool { return s.Ranges[i].To >= n })
	return i < len(s.Ranges) && s.Ranges[i].Contains(n)
}

// CompiledTable is the immutable, merged and token-indexed form of a list of
// zone entries. It is safe for concurrent reads.
type CompiledTable struct {
	streets []StreetRanges
	index   map[string][]int
	dropped int
}

// Compile normalizes, groups and merges raw entries and builds the token index.
// Entries with an empty normalized street or From > To are excluded.
func Compile(entries []ZoneEntry) *CompiledTable {
	groupOf := make(map[string]int)
	var groups []StreetRanges
	dropped := 0

	for _, e := range entries {
		street := NormalizeStreet(e.Street)
		if street == "" || e.From > e.To {
			dropped++
			continue
		}

		idx, ok := groupOf[street]
		if !ok {
			idx = len(groups)
			groupOf[street] = idx
			groups = append(groups, StreetRanges{Street: street})
		}
		groups[idx].Ranges = append(groups[idx].Ranges, Range{From: e.From, To: e.To})
	}

	index := make(map[string][]int)
	for i := range groups {
		groups[i].Ranges = MergeRanges(groups[i].Ranges)
		for _, token := range uniqueTokens(groups[i].Street) {
			index[token] = append(index[token], i)
		}
	}

	return &CompiledTable{streets: groups, index: index, dropped: dropped}
}

// MergeRanges sorts ranges by start (then end) and coalesces overlapping or
// adjacent ones: [1,100] and [101,200] become [1,200]. The input is not modified.
func MergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].From != sorted[j].From {
			return sorted[i].From < sorted[j].From
		}
		return sorted[i].To < sorted[j].To
	})

	merged := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.From <= last.To+1 {
			if r.To > last.To {
				last.To = r.To
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// IsCovered reports whether a normalized query street and house number fall
// inside any compiled entry. An entry matches when its street is a substring
// of the query street and the number is within one of its merged ranges.
//
// Token index hits are checked first. When they produce no match the
// remaining entries are scanned too, so the index never changes the result.
func (t *CompiledTable) IsCovered(normalizedStreet string, number int) bool {
	if t == nil || normalizedStreet == "" {
		return false
	}

	candidates := t.candidates(normalizedStreet)
	for _, i := range candidates {
		if t.matches(i, normalizedStreet, number) {
			return true
		}
	}

	seen := make(map[int]struct{}, len(candidates))
	for _, i := range candidates {
		seen[i] = struct{}{}
	}
	for i := range t.streets {
		if _, ok := seen[i]; ok {
			continue
		}
		if t.matches(i, normalizedStreet, number) {
			return true
		}
	}
	return false
}

// Streets returns the merged entries in first-seen order.
func (t *CompiledTable) Streets() []StreetRanges {
	out := make([]StreetRanges, len(t.streets))
	for i, s := range t.streets {
		out[i] = StreetRanges{Street: s.Street, Ranges: append([]Range(nil), s.Ranges...)}
	}
	return out
}

// Stats summarizes the table for diagnostics.
func (t *CompiledTable) Stats() TableStats {
	stats := TableStats{Streets: len(t.streets), Tokens: len(t.index), Dropped: t.dropped}
	for _, s := range t.streets {
		stats.Ranges += len(s.Ranges)
	}
	return stats
}

// TableStats describes the size of a compiled table.
type TableStats struct {
	Streets int `json:"streets"`
	Ranges  int `json:"ranges"`
	Tokens  int `json:"tokens"`
	Dropped int `json:"dropped"`
}

func (t *CompiledTable) matches(i int, query string, number int) bool {
	entry := t.streets[i]
	return strings.Contains(query, entry.Street) && entry.covers(number)
}

// candidates returns the union of index hits for the query tokens in
// ascending group order.
func (t *CompiledTable) candidates(query string) []int {
	set := make(map[int]struct{})
	for _, token := range tokenize(query) {
		for _, i := range t.index[token] {
			set[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func uniqueTokens(street string) []string {
	tokens := tokenize(street)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

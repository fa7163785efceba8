package standings

import "strings"

// PageIDFromURL reduces a full team URL to its page identifier: a leading
// slash plus the last two path segments ("/teams/123"). Relative ids pass
// through unchanged. Anything without two path segments after the host
// yields "".
func PageIDFromURL(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "://"); i >= 0 {
		s = hostless(strings.TrimLeft(s[i+3:], "/"))
	} else if strings.HasPrefix(s, "//") {
		s = hostless(strings.TrimPrefix(s, "//"))
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' })
	if len(parts) < 2 {
		return ""
	}
	return "/" + strings.Join(parts[len(parts)-2:], "/")
}

func hostless(s string) string {
	_, path, ok := strings.Cut(s, "/")
	if !ok {
		return ""
	}
	return path
}

// Candidates returns the page ids of rows flagged with the given nationality,
// in page order.
func Candidates(rows []RawRow, nationality string) []string {
	var ids []string
	for _, r := range rows {
		if r.PageID != "" && r.HasNationality(nationality) {
			ids = append(ids, r.PageID)
		}
	}
	return ids
}

// Resolve unions the candidates with the forced-include list, deduplicates by
// page id, and then removes every id on the exclusion list. Inclusion is
// applied before exclusion, so an id on both lists is excluded.
func Resolve(candidates, include, exclude []string) []string {
	seen := make(map[string]struct{}, len(candidates)+len(include))
	out := make([]string, 0, len(candidates)+len(include))
	for _, list := range [][]string{candidates, include} {
		for _, id := range list {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}
	kept := out[:0]
	for _, id := range out {
		if _, ok := excluded[id]; !ok {
			kept = append(kept, id)
		}
	}
	return kept
}

// FilterRows keeps the rows whose page id is in ids, preserving page order.
func FilterRows(rows []RawRow, ids []string) []RawRow {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	var out []RawRow
	for _, r := range rows {
		if _, ok := set[r.PageID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// UniqueByPageID keeps the first record for each page id and returns the ids
// of the duplicates it dropped.
func UniqueByPageID(records []TeamRecord) ([]TeamRecord, []string) {
	seen := make(map[string]struct{}, len(records))
	out := make([]TeamRecord, 0, len(records))
	var dups []string
	for _, r := range records {
		if _, ok := seen[r.PageID]; ok {
			dups = append(dups, r.PageID)
			continue
		}
		seen[r.PageID] = struct{}{}
		out = append(out, r)
	}
	return out, dups
}

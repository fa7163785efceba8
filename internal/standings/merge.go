package standings

// MergedTeam is a team record enriched with its display name and roster.
type MergedTeam struct {
	TeamRecord
	Players string
	Coach   string
}

// ResolveField picks between a previously published value and a freshly
// joined one. Elevated divisions keep the published value; every other
// division takes the fresh value, even when it is empty.
func ResolveField(old, fresh string, d Division) string {
	if d.Elevated() {
		return old
	}
	return fresh
}

// Merge left-joins records against the rename and roster tables by page id.
// Every record yields exactly one MergedTeam; unmatched players and coach are
// empty. Keeping curated values for elevated rows is the caller's concern and
// goes through ResolveField.
func Merge(records []TeamRecord, rosters RosterTable, renames RenameTable) []MergedTeam {
	out := make([]MergedTeam, 0, len(records))
	for _, rec := range records {
		if name, ok := renames[rec.PageID]; ok && name != "" {
			rec.Name = name
		}

		roster := rosters[rec.PageID]
		out = append(out, MergedTeam{TeamRecord: rec, Players: roster.PlayersString(), Coach: roster.Coach})
	}
	return out
}

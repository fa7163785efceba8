package standings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoFormula(t *testing.T) {
	tests := []struct {
		name string
		ref  *string
		want string
	}{
		{"nil", nil, ""},
		{"empty", strPtr(""), ""},
		{"protocol relative", strPtr("//cdn.example/x.png"), `=IMAGE("https://cdn.example/x.png")`},
		{"already secure", strPtr("https://cdn.example/x.png"), `=IMAGE("https://cdn.example/x.png")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogoFormula(tt.ref))
		})
	}
}

func TestRecordString(t *testing.T) {
	assert.Equal(t, "12-3", RecordString(12, 3))
	assert.Equal(t, "0-0", RecordString(0, 0))
}

func TestAssembler_PageURL(t *testing.T) {
	a := Assembler{Origin: "https://play.esea.net/"}
	assert.Equal(t, "https://play.esea.net/teams/1", a.PageURL("/teams/1"))
	assert.Equal(t, "https://example.org/teams/1", a.PageURL("https://example.org/teams/1"))
	assert.Equal(t, "", a.PageURL(""))
}

func TestAssembler_Assemble(t *testing.T) {
	a := Assembler{Origin: "https://play.esea.net"}
	pro := []ProTeam{
		{Name: "Pro One", Division: DivisionPro, Record: "5-1", PageURL: "https://liquipedia.net/pro1", Players: "A, B", Coach: "C"},
	}
	teams := []MergedTeam{
		{TeamRecord: TeamRecord{Name: "Main One", LogoRef: strPtr("//cdn/m.png"), Wins: 12, Losses: 3, Division: DivisionMain, PageID: "/teams/1"}, Players: "X, Y", Coach: "Z"},
		{TeamRecord: TeamRecord{Name: "Open One", Division: DivisionOpen, PageID: "/teams/2"}},
	}

	rows := a.Assemble(pro, teams)

	want := []PublishedRow{
		{TeamName: "Pro One", Players: "A, B", Division: "Pro", Record: "5-1", PageURL: "https://liquipedia.net/pro1", Coach: "C"},
		{TeamName: "Main One", LogoFormula: `=IMAGE("https://cdn/m.png")`, Players: "X, Y", Division: "Main", Record: "12-3", PageURL: "https://play.esea.net/teams/1", Coach: "Z"},
		{TeamName: "Open One", Division: "Open", Record: "0-0", PageURL: "https://play.esea.net/teams/2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, rows[2].Values(), len(PublishedHeader))
	assert.Equal(t, []string{"Open One", "", "", "Open", "0-0", "https://play.esea.net/teams/2", ""}, rows[2].Values())
}

func TestAssembler_Idempotent(t *testing.T) {
	a := Assembler{Origin: "https://play.esea.net"}
	teams := Merge([]TeamRecord{
		{Name: "One", PageID: "/teams/1", Division: DivisionMain, Wins: 2, Losses: 1, LogoRef: strPtr("//x/1.png")},
		{Name: "Two", PageID: "/teams/2", Division: DivisionAdvanced},
	}, RosterTable{"/teams/1": {Players: []string{"P"}}}, nil)

	first := RowValues(a.Assemble(nil, teams))
	second := RowValues(a.Assemble(nil, teams))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second assembly differs (-first +second):\n%s", diff)
	}
}

func TestParsePublishedRow(t *testing.T) {
	rec := Record{"Team": "T", "": "", "Players": "P", "Division": "Pro", "Record": "1-0", "ESEA Page": "u", "Coach": "C"}
	row := ParsePublishedRow(rec)
	assert.Equal(t, []string{"T", "", "P", "Pro", "1-0", "u", "C"}, row.Values())
}

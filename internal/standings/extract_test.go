package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cells builds a standings row whose wins and losses sit at the fixed
// offsets from the end.
func cells(wins, losses string) []string {
	return []string{"1", "Team", wins, losses, "0", "0", "W2", "0", "0"}
}

func strPtr(s string) *string { return &s }

func TestExtract(t *testing.T) {
	rows := []RawRow{
		{Name: " Alpha ", PageID: "/teams/1", LogoSrc: strPtr("//cdn/a.png"), Cells: cells("12", "3"), Division: DivisionMain},
		{Name: "Bravo", PageID: "/teams/2", Cells: cells("x", "3"), Division: DivisionMain},
		{Name: "Charlie", PageID: "/teams/3", Cells: []string{"1", "2"}, Division: DivisionOpen},
		{Name: "Delta", PageID: "/teams/4", Cells: cells("0", "-1"), Division: DivisionOpen},
		{Name: "Echo", PageID: "/teams/5", Cells: cells("4", " 5 "), Division: DivisionOpen},
	}

	records, diags := Extract(rows)

	require.Len(t, records, 2)
	assert.Equal(t, TeamRecord{Name: "Alpha", LogoRef: strPtr("//cdn/a.png"), Wins: 12, Losses: 3, Division: DivisionMain, PageID: "/teams/1"}, records[0])
	assert.Equal(t, "/teams/5", records[1].PageID)
	assert.Nil(t, records[1].LogoRef, "missing logo must stay nil")
	assert.Equal(t, 5, records[1].Losses)

	require.Len(t, diags, 3)
	assert.Equal(t, "/teams/2", diags[0].PageID)
	assert.Contains(t, diags[0].Reason, "wins")
	assert.Equal(t, "/teams/3", diags[1].PageID)
	assert.Contains(t, diags[2].Reason, "negative")
}

func TestExtract_LogoIsCopied(t *testing.T) {
	src := "//cdn/a.png"
	records, _ := Extract([]RawRow{{PageID: "/teams/1", LogoSrc: &src, Cells: cells("1", "1")}})
	require.Len(t, records, 1)

	src = "changed"
	assert.Equal(t, "//cdn/a.png", *records[0].LogoRef)
}

func TestDivision(t *testing.T) {
	tests := []struct {
		in       string
		want     Division
		label    string
		elevated bool
	}{
		{"advanced", DivisionAdvanced, "Advanced", false},
		{"MAIN", DivisionMain, "Main", false},
		{" Intermediate ", DivisionIntermediate, "Intermediate", false},
		{"open", DivisionOpen, "Open", false},
		{"Pro", DivisionPro, "Pro", true},
		{"challenger", DivisionChallenger, "Challenger", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDivision(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
			assert.Equal(t, tt.label, d.Label())
			assert.Equal(t, tt.elevated, d.Elevated())
		})
	}

	_, err := ParseDivision("premier")
	assert.ErrorIs(t, err, ErrUnknownDivision)
	assert.False(t, IsElevatedLabel("premier"))
	assert.True(t, IsElevatedLabel("Challenger"))
}

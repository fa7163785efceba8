package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// League describes how the source site numbers seasons and which divisions
// are scraped, plus the names of the worksheets the pipeline reads and writes.
type League struct {
	Game         int                  `yaml:"game" validate:"gt=0"`
	Region       int                  `yaml:"region" validate:"gt=0"`
	SeasonOffset int                  `yaml:"season_offset" validate:"gte=0"`
	Round        string               `yaml:"round" validate:"required"`
	Divisions    []standings.Division `yaml:"divisions" validate:"required,min=1,dive,oneof=advanced main intermediate open"`
	Sheets       SheetNames           `yaml:"sheets"`
}

// SheetNames are the worksheet titles inside the hub spreadsheet.
type SheetNames struct {
	AdditionalTeams string `yaml:"additional_teams" validate:"required"`
	RemoveTeams     string `yaml:"remove_teams" validate:"required"`
	TeamNames       string `yaml:"team_names" validate:"required"`
	Players         string `yaml:"players" validate:"required"`
	Coaches         string `yaml:"coaches" validate:"required"`
	ProTeams        string `yaml:"pro_teams" validate:"required"`
	SeasonFormat    string `yaml:"season_format" validate:"required,contains=%d"`
}

// DefaultLeague is the ESEA UK hub layout.
func DefaultLeague() League {
	return League{
		Game:         25,
		Region:       2,
		SeasonOffset: 175,
		Round:        "regular season",
		Divisions: []standings.Division{
			standings.DivisionAdvanced,
			standings.DivisionMain,
			standings.DivisionIntermediate,
			standings.DivisionOpen,
		},
		Sheets: SheetNames{
			AdditionalTeams: "Additional Teams",
			RemoveTeams:     "Remove Teams",
			TeamNames:       "Team Names",
			Players:         "Players",
			Coaches:         "Coaches",
			ProTeams:        "Pro/Ch Teams",
			SeasonFormat:    "Season %d",
		},
	}
}

// SeasonSheet returns the worksheet title for a season.
func (l League) SeasonSheet(season int) string {
	return fmt.Sprintf(l.Sheets.SeasonFormat, season)
}

// SourceSeason converts a hub season number into the source site's id.
func (l League) SourceSeason(season int) int {
	return season + l.SeasonOffset
}

// LoadLeague returns DefaultLeague, overlaid with the YAML file at path when
// path is set. Keys missing from the file keep their defaults.
func LoadLeague(path string) (League, error) {
	league := DefaultLeague()
	if strings.TrimSpace(path) == "" {
		return league, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return League{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseLeagueYAML(data)
}

// ParseLeagueYAML decodes a league definition over the defaults and validates it.
func ParseLeagueYAML(data []byte) (League, error) {
	league := DefaultLeague()
	if len(bytes.TrimSpace(data)) == 0 {
		return league, nil
	}
	if err := yaml.Unmarshal(data, &league); err != nil {
		return League{}, fmt.Errorf("decode league: %w", err)
	}
	for i, d := range league.Divisions {
		league.Divisions[i] = standings.Division(strings.ToLower(strings.TrimSpace(string(d))))
	}
	if err := validateStruct(league); err != nil {
		return League{}, err
	}
	return league, nil
}

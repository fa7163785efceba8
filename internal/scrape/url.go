package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

const standingsPath = "/league/standings"

// DivisionURL builds the standings page address for one division. Filter keys
// keep their literal brackets and a fixed order; the site is picky about both.
func DivisionURL(origin string, league config.League, season int, division standings.Division) string {
	filters := []struct{ key, value string }{
		{"game", fmt.Sprint(league.Game)},
		{"season", fmt.Sprint(league.SourceSeason(season))},
		{"region", fmt.Sprint(league.Region)},
		{"round", league.Round},
		{"level", string(division)},
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(origin, "/"))
	b.WriteString(standingsPath)
	for i, f := range filters {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		fmt.Fprintf(&b, "filters[%s]=%s", f.key, url.PathEscape(f.value))
	}
	return b.String()
}

package scrape

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/standings"
)

// ParseStandings lifts every data row of a standings page. The first table
// row is the header and is skipped. Rows without a team anchor are ignored.
//
// Per row: the last anchor carries the team name and page link, an image
// inside the first anchor is the logo, every cell's text is kept in order,
// and every <title> element (flag icons) is collected as a nationality.
func ParseStandings(r io.Reader, division standings.Division) ([]standings.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse standings html: %w", err)
	}

	var rows []standings.RawRow
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		if row, ok := parseRow(tr, division); ok {
			rows = append(rows, row)
		}
	})
	return rows, nil
}

func parseRow(tr *goquery.Selection, division standings.Division) (standings.RawRow, bool) {
	anchors := tr.Find("a")
	if anchors.Length() == 0 {
		return standings.RawRow{}, false
	}
	team := anchors.Last()
	href, _ := team.Attr("href")

	row := standings.RawRow{
		Name:     strings.TrimSpace(team.Text()),
		PageID:   standings.PageIDFromURL(href),
		Division: division,
	}

	if src, ok := anchors.First().Find("img").First().Attr("src"); ok {
		src = strings.TrimSpace(src)
		row.LogoSrc = &src
	}

	tr.Find("td").Each(func(_ int, td *goquery.Selection) {
		row.Cells = append(row.Cells, strings.TrimSpace(td.Text()))
	})
	tr.Find("title").Each(func(_ int, t *goquery.Selection) {
		if s := strings.TrimSpace(t.Text()); s != "" {
			row.Nationalities = append(row.Nationalities, s)
		}
	})
	return row, true
}

package autorace

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const (
	tokenSelector       = "input#search_race__token"
	resultTableSelector = "table#tblRace"
	rowSelector         = "tr"
	cellSelector        = "td"
	anchorSelector      = "a"
)

func parseToken(doc *goquery.Document) (string, error) {
	input := doc.Find(tokenSelector).First()
	if input.Length() == 0 {
		return "", missingElement(tokenSelector)
	}
	token, ok := input.Attr("value")
	if !ok {
		return "", missingElement(fmt.Sprintf("%s[value]", tokenSelector))
	}
	return token, nil
}

// parseResultHrefs returns the href of the first link in the first cell of
// every row of the result table, the header row excluded. A single malformed
// row fails the whole page.
func parseResultHrefs(doc *goquery.Document) ([]string, error) {
	table := doc.Find(resultTableSelector).First()
	if table.Length() == 0 {
		return nil, missingElement(resultTableSelector)
	}

	rows := table.Find(rowSelector)
	hrefs := make([]string, 0, max(rows.Length()-1, 0))

	var err error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true
		}
		href, rowErr := parseRowHref(row)
		if rowErr != nil {
			err = fmt.Errorf("row %d: %w", i, rowErr)
			return false
		}
		hrefs = append(hrefs, href)
		return true
	})
	if err != nil {
		return nil, err
	}

	return hrefs, nil
}

func parseRowHref(row *goquery.Selection) (string, error) {
	cell := row.Find(cellSelector).First()
	if cell.Length() == 0 {
		return "", missingElement(cellSelector)
	}
	anchor := cell.Find(anchorSelector).First()
	if anchor.Length() == 0 {
		return "", missingElement(anchorSelector)
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return "", missingElement("a[href]")
	}
	return href, nil
}

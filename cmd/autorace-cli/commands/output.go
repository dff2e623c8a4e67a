package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	formatTable = "table"
	formatPlain = "plain"
	formatJson  = "json"
)

var outputFormats = []string{formatTable, formatPlain, formatJson}

func validateFormat(format string) error {
	if slices.Contains(outputFormats, format) {
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected one of %v", format, outputFormats)
}

func renderHrefs(out io.Writer, format string, title string, hrefs []string) error {
	switch format {
	case formatTable:
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(out)
		t.SetTitle(title)
		t.AppendHeader(table.Row{"#", "Result"})
		for i, href := range hrefs {
			t.AppendRow(table.Row{i + 1, href})
		}
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d results", len(hrefs))})
		t.Render()
		return nil
	case formatPlain:
		for _, href := range hrefs {
			_, err := fmt.Fprintln(out, href)
			if err != nil {
				return err
			}
		}
		return nil
	case formatJson:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(hrefs)
	default:
		return validateFormat(format)
	}
}

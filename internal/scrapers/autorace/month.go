package autorace

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var resultHrefCounter, _ = meter.Int64Counter(
	"autorace.result_hrefs",
	metric.WithDescription("result page links found by monthly queries"),
)

func queryForm(window DateWindow, token string) url.Values {
	return url.Values{
		"search_race[lg]":               {"0"},
		"search_race[date_from][year]":  {strconv.Itoa(window.YearFrom)},
		"search_race[date_from][month]": {strconv.Itoa(window.MonthFrom)},
		"search_race[date_from][day]":   {strconv.Itoa(window.DayFrom)},
		"search_race[date_to][year]":    {strconv.Itoa(window.YearTo)},
		"search_race[date_to][month]":   {strconv.Itoa(window.MonthTo)},
		"search_race[date_to][day]":     {strconv.Itoa(window.DayTo)},
		"search_race[paragraph]":        {""},
		"search_race[_token]":           {token},
	}
}

// FetchMonth queries the races held in the given month and returns the
// result page links in the order the result table lists them.
func (c *Client) FetchMonth(ctx context.Context, year, month int, session Session) ([]string, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be within 1-12, got %d", month)
	}

	attrs := []attribute.KeyValue{
		attribute.Int("year", year),
		attribute.Int("month", month),
	}
	ctx, span := tracer.Start(ctx, "client:FetchMonth", trace.WithAttributes(attrs...))
	defer span.End()

	window := NewDateWindow(year, month)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Cookie", session.cookieHeader()).
		SetFormDataFromValues(queryForm(window, session.Token)).
		Post(resultPath)
	if err != nil {
		return nil, c.broken(span, report_client_fetch_month, transportError("post search query", err), year, month)
	}
	c.checkStatus(report_client_fetch_month, res)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, c.broken(
			span,
			report_client_fetch_month,
			fmt.Errorf("%w: result page: %w", ErrHtmlParse, err),
			year, month,
		)
	}
	hrefs, err := parseResultHrefs(doc)
	if err != nil {
		return nil, c.broken(span, report_client_fetch_month, err, year, month)
	}

	c.tel.ReportCount(fmt.Sprintf("%s.%04d-%02d", report_client_fetch_month, year, month), int64(len(hrefs)))
	resultHrefCounter.Add(ctx, int64(len(hrefs)), metric.WithAttributes(attrs...))

	return hrefs, nil
}

package autorace

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// FetchResultUrlsOfYear collects the result page links of every month of
// `year` using a single session. The result is sorted and free of duplicates.
//
// The first failure aborts the crawl and is returned as is, links gathered
// from other months are discarded.
func (c *Client) FetchResultUrlsOfYear(ctx context.Context, year int) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchResultUrlsOfYear", trace.WithAttributes(
		attribute.Int("year", year),
		attribute.Int("concurrency", c.concurrency),
	))
	defer span.End()

	session, err := c.EstablishSession(ctx)
	if err != nil {
		return nil, err
	}

	months := make([][]string, 12)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.concurrency)
	for month := 1; month <= 12; month++ {
		group.Go(func() error {
			// a failed month cancels groupCtx before its slot is released
			err := groupCtx.Err()
			if err != nil {
				return err
			}
			hrefs, err := c.FetchMonth(groupCtx, year, month, session)
			if err != nil {
				return err
			}
			months[month-1] = hrefs
			return nil
		})
	}
	err = group.Wait()
	if err != nil {
		// already reported by the month that failed
		return nil, failSpan(span, err)
	}

	result := mergeResultHrefs(months)
	span.SetAttributes(attribute.Int("result_count", len(result)))
	c.tel.ReportDebug("year fetched", year, len(result))
	return result, nil
}

func mergeResultHrefs(months [][]string) []string {
	var result []string
	for _, hrefs := range months {
		result = append(result, hrefs...)
	}
	slices.Sort(result)
	result = slices.Compact(result)
	if result == nil {
		return []string{}
	}
	return result
}

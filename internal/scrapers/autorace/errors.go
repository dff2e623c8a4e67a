package autorace

import (
	"errors"
	"fmt"
)

// The three kinds of failure a crawl can end with, match them with errors.Is.
var (
	// ErrCookie means the search page response did not set the PHPSESSID cookie.
	ErrCookie = errors.New("cookie error")
	// ErrHtmlParse means an expected element or attribute was missing from a page.
	ErrHtmlParse = errors.New("html parse error")
	// ErrHttpIO means a request could not be completed at the transport level.
	ErrHttpIO = errors.New("http io error")
)

func missingElement(what string) error {
	return fmt.Errorf("%w: missing %s", ErrHtmlParse, what)
}

func transportError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrHttpIO, what, err)
}

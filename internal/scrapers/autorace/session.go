package autorace

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

const sessionCookieName = "PHPSESSID"

// Session is what the search form expects back on every query. It is never
// modified after EstablishSession returns it.
type Session struct {
	SessionId string
	Token     string
}

func (s Session) cookieHeader() string {
	return fmt.Sprintf("%s=%s", sessionCookieName, s.SessionId)
}

// EstablishSession loads the search page to obtain a session cookie and the
// form token of the search form.
func (c *Client) EstablishSession(ctx context.Context) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:EstablishSession")
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(searchPath)
	if err != nil {
		return Session{}, c.broken(span, report_client_establish_session, transportError("get search page", err))
	}
	c.checkStatus(report_client_establish_session, res)

	sessionId := ""
	found := false
	for _, cookie := range res.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionId = cookie.Value
			found = true
			break
		}
	}
	if !found {
		return Session{}, c.broken(
			span,
			report_client_establish_session,
			fmt.Errorf("%w: %s was not set", ErrCookie, sessionCookieName),
		)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return Session{}, c.broken(
			span,
			report_client_establish_session,
			fmt.Errorf("%w: search page: %w", ErrHtmlParse, err),
		)
	}
	token, err := parseToken(doc)
	if err != nil {
		return Session{}, c.broken(span, report_client_establish_session, err)
	}

	c.tel.ReportDebug("session established")
	return Session{
		SessionId: sessionId,
		Token:     token,
	}, nil
}

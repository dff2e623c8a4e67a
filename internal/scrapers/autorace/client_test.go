package autorace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBaseUrlWithoutHost(t *testing.T) {
	_, err := NewClient(Options{BaseUrl: "/netstadium"}, tel)
	require.Error(t, err)
}

func TestEstablishSession(t *testing.T) {
	portal := newFakePortal(nil)
	client := startPortal(t, portal, Options{})

	session, err := client.EstablishSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, Session{
		SessionId: "a6c0d9e1f2b3",
		Token:     "s3X1wQ0yG6b2Zk9-Tn4uPq8rHc7LmVd5JaEo0iKfB1A",
	}, session)
}

func TestEstablishSessionFollowsCrossHostRedirect(t *testing.T) {
	portal := httptest.NewServer(newFakePortal(nil))
	t.Cleanup(portal.Close)

	portalUrl, err := url.Parse(portal.URL)
	require.NoError(t, err)
	// same server, reached through a different host name
	target := "http://localhost:" + portalUrl.Port()

	front := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target+r.URL.RequestURI(), http.StatusMovedPermanently)
	}))
	t.Cleanup(front.Close)

	client, err := NewClient(Options{BaseUrl: front.URL}, tel)
	require.NoError(t, err)

	session, err := client.EstablishSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a6c0d9e1f2b3", session.SessionId)
	require.Equal(t, "s3X1wQ0yG6b2Zk9-Tn4uPq8rHc7LmVd5JaEo0iKfB1A", session.Token)
}

func TestEstablishSessionMissingCookie(t *testing.T) {
	portal := newFakePortal(nil)
	portal.sessionId = ""
	client := startPortal(t, portal, Options{})

	_, err := client.EstablishSession(context.Background())
	require.ErrorIs(t, err, ErrCookie)
}

func TestEstablishSessionMissingToken(t *testing.T) {
	portal := newFakePortal(nil)
	portal.searchPage = []byte(`<html><body><form></form></body></html>`)
	client := startPortal(t, portal, Options{})

	_, err := client.EstablishSession(context.Background())
	require.ErrorIs(t, err, ErrHtmlParse)
}

func TestEstablishSessionTransportError(t *testing.T) {
	server := httptest.NewServer(newFakePortal(nil))
	baseUrl := server.URL
	server.Close()

	client, err := NewClient(Options{BaseUrl: baseUrl}, tel)
	require.NoError(t, err)

	_, err = client.EstablishSession(context.Background())
	require.ErrorIs(t, err, ErrHttpIO)
	require.NotErrorIs(t, err, ErrHtmlParse)
}

func TestFetchMonth(t *testing.T) {
	portal := newFakePortal(map[int]string{
		3: string(resultPageTest),
	})
	client := startPortal(t, portal, Options{})
	session := Session{SessionId: "abc123", Token: "token-1"}

	hrefs, err := client.FetchMonth(context.Background(), 2018, 3, session)
	require.NoError(t, err)
	require.Equal(t, []string{
		"/netstadium/RaceResult/kawaguchi/2018-01-01/1",
		"/netstadium/RaceResult/isesaki/2018-01-02/1",
		"/netstadium/RaceResult/iizuka/2018-01-03/1",
	}, hrefs)

	queries := portal.recordedQueries()
	require.Len(t, queries, 1)
	require.Equal(t, "PHPSESSID=abc123", queries[0].cookie)
	if diff := cmp.Diff(queryForm(NewDateWindow(2018, 3), "token-1"), queries[0].form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchMonthDecember(t *testing.T) {
	portal := newFakePortal(nil)
	client := startPortal(t, portal, Options{})

	hrefs, err := client.FetchMonth(context.Background(), 2018, 12, Session{SessionId: "abc", Token: "tok"})
	require.NoError(t, err)
	require.Empty(t, hrefs)

	queries := portal.recordedQueries()
	require.Len(t, queries, 1)
	require.Equal(t, "2018", queries[0].form.Get("search_race[date_from][year]"))
	require.Equal(t, "12", queries[0].form.Get("search_race[date_from][month]"))
	require.Equal(t, "2019", queries[0].form.Get("search_race[date_to][year]"))
	require.Equal(t, "1", queries[0].form.Get("search_race[date_to][month]"))
}

func TestFetchMonthOutOfRange(t *testing.T) {
	portal := newFakePortal(nil)
	client := startPortal(t, portal, Options{})

	for _, month := range []int{0, 13, -1} {
		_, err := client.FetchMonth(context.Background(), 2018, month, Session{})
		require.Error(t, err)
	}
	require.Empty(t, portal.recordedQueries())
}

func TestFetchMonthMissingTable(t *testing.T) {
	portal := newFakePortal(map[int]string{
		5: `<html><body><p>該当するレースはありません</p></body></html>`,
	})
	client := startPortal(t, portal, Options{})

	hrefs, err := client.FetchMonth(context.Background(), 2018, 5, Session{SessionId: "abc", Token: "tok"})
	require.ErrorIs(t, err, ErrHtmlParse)
	require.Nil(t, hrefs)
}

func TestFetchMonthTransportError(t *testing.T) {
	server := httptest.NewServer(newFakePortal(nil))
	baseUrl := server.URL
	server.Close()

	client, err := NewClient(Options{BaseUrl: baseUrl}, tel)
	require.NoError(t, err)

	_, err = client.FetchMonth(context.Background(), 2018, 1, Session{SessionId: "abc", Token: "tok"})
	require.ErrorIs(t, err, ErrHttpIO)
}

func TestFetchMonthTransportErrorReportedOnce(t *testing.T) {
	server := httptest.NewServer(newFakePortal(nil))
	baseUrl := server.URL
	server.Close()

	recorder := newBrokenRecorder()
	client, err := NewClient(Options{BaseUrl: baseUrl}, recorder)
	require.NoError(t, err)

	_, err = client.FetchMonth(context.Background(), 2018, 1, Session{SessionId: "abc", Token: "tok"})
	require.ErrorIs(t, err, ErrHttpIO)
	require.Equal(t, []string{"autorace_scraper: resty.response"}, recorder.brokenIds())
}

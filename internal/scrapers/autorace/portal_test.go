package autorace

import (
	"autorace-crawler/internal/components/telemetry"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

var tel = telemetry.NewSlogAPI(slog.LevelDebug)

func resultPage(hrefs ...string) string {
	var rows strings.Builder
	for i, href := range hrefs {
		rows.WriteString(fmt.Sprintf(
			`<tr><td><a href="%s">%d</a></td><td>川口</td></tr>`,
			href, i+1,
		))
	}
	return fmt.Sprintf(
		`<html><body><table id="tblRace"><tr><th>開催日</th><th>レース場</th></tr>%s</table></body></html>`,
		rows.String(),
	)
}

type portalQuery struct {
	form   url.Values
	cookie string
}

// fakePortal serves the search page and answers monthly queries keyed by the
// month of the window start.
type fakePortal struct {
	sessionId  string
	searchPage []byte
	months     map[int]string

	mu       sync.Mutex
	searches int
	queries  []portalQuery
}

func newFakePortal(months map[int]string) *fakePortal {
	return &fakePortal{
		sessionId:  "a6c0d9e1f2b3",
		searchPage: searchPageTest,
		months:     months,
	}
}

func (p *fakePortal) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == searchPath:
		p.mu.Lock()
		p.searches++
		p.mu.Unlock()

		http.SetCookie(w, &http.Cookie{Name: "visited", Value: "1", Path: "/"})
		if p.sessionId != "" {
			http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: p.sessionId, Path: "/"})
		}
		w.Write(p.searchPage)
	case r.Method == http.MethodPost && r.URL.Path == resultPath:
		err := r.ParseForm()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p.mu.Lock()
		p.queries = append(p.queries, portalQuery{
			form:   r.PostForm,
			cookie: r.Header.Get("Cookie"),
		})
		p.mu.Unlock()

		month, err := strconv.Atoi(r.PostForm.Get("search_race[date_from][month]"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page, ok := p.months[month]
		if !ok {
			page = resultPage()
		}
		w.Write([]byte(page))
	default:
		http.NotFound(w, r)
	}
}

func (p *fakePortal) searchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searches
}

func (p *fakePortal) recordedQueries() []portalQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]portalQuery(nil), p.queries...)
}

func (p *fakePortal) queriedMonths() []int {
	var months []int
	for _, q := range p.recordedQueries() {
		month, _ := strconv.Atoi(q.form.Get("search_race[date_from][month]"))
		months = append(months, month)
	}
	return months
}

func startPortal(t *testing.T, portal *fakePortal, opts Options) *Client {
	return startPortalWithTel(t, portal, opts, tel)
}

func startPortalWithTel(t *testing.T, portal *fakePortal, opts Options, api telemetry.API) *Client {
	server := httptest.NewServer(portal)
	t.Cleanup(server.Close)

	opts.BaseUrl = server.URL
	client, err := NewClient(opts, api)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

// brokenRecorder keeps the ids passed to ReportBroken and logs everything.
type brokenRecorder struct {
	telemetry.SlogAPI

	mu  sync.Mutex
	ids []string
}

func newBrokenRecorder() *brokenRecorder {
	return &brokenRecorder{SlogAPI: telemetry.NewSlogAPI(slog.LevelDebug)}
}

func (r *brokenRecorder) ReportBroken(id string, params ...any) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
	r.SlogAPI.ReportBroken(id, params...)
}

func (r *brokenRecorder) brokenIds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

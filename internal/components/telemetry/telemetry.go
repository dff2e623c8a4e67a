package telemetry

import (
	"fmt"
)

// API is where components send their logs and counts. Tests swap it out to
// assert on what a component reported.
type API interface {
	// ReportBroken reports a failure that ends an operation. `id` names the
	// component that failed (`client.fetch-month`), details go in params.
	//
	// ids are lowercase, dotted by component and dashed within a name.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something odd that did not stop the operation.
	ReportWarning(id string, params ...any)

	// ReportDebug is only shown with verbose logging.
	ReportDebug(msg string, params ...any)

	// ReportCount records how many of something a single operation saw.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id and message with a namespace.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}

// Package testutil provides a fake upstream API for exercising connectors
// in tests.
//
// Upstream is a gin-backed httptest server that records every request it
// receives and answers from a route table that tests can change at any
// time:
//
//	up := testutil.NewUpstream("billing")
//	testutil.T(t).Setup(up)
//	up.JSON(http.MethodPost, "/widgets", http.StatusCreated, map[string]any{"id": 7})
//
//	// ... point a connector at up.URL() and call it ...
//
//	req := up.LastRequest()
//
// Upstream implements TestComponent, so Reset clears routes and recorded
// requests between cases and Snapshot/Restore save and restore them.
package testutil

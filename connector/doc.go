// Package connector is the shared base of authenticated REST API clients.
//
// A Connector owns one pooled *http.Client and an auth.Provider. Concrete
// clients call Send with a method, a path relative to the base URL and a
// CallConfig:
//
//	c, err := connector.New(connector.Config{
//		Name:    "billing",
//		BaseURL: "https://api.example.com/v1/",
//	}, connector.WithAuth(auth.Bearer(token)))
//
//	res, err := connector.Send[Widget](ctx, c, http.MethodPost, "widgets",
//		connector.CallConfig{PostParams: Widget{Name: "a"}})
//
// Send builds the URL (RFC 3986 resolution plus an optional query string),
// attaches the Authorization header, transmits the request, reads the body
// and classifies the response:
//
//   - 204, or any 2xx without a body: Result.Empty is true.
//   - 2xx with a body: the JSON body is decoded into Result.Data.
//   - anything else: an *Error of KindClassification carrying the
//     status, headers and raw body.
//
// Request bodies are always logged. Response bodies are logged through a
// BodyLogger at Visible or Redacted sensitivity; redacted bodies appear as
// "[Omitted]".
package connector

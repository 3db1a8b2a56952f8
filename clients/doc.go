// Package clients provides HTTP implementations of the external collaborator
// interfaces: the catalog, the patron directory, the notification gateway,
// the audit sink, and the policy source.
//
// All clients share the same construction pattern: a base URL plus options
// for the HTTP client and timeout. Payloads are encoded with jsoniter.
// Transport and decode failures are returned as errors; the caller decides
// whether the collaborator is critical for the operation at hand.
package clients

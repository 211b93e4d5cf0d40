// Package catalog is the server side of the query endpoint.
//
// A flow identifier and free text are turned into a deterministic search plan
// (see Plan): keywords that must all appear in some text field of an event,
// an optional calendar day, and for detail lookups a name phrase limited to a
// single row. Service runs plans against a ports.EventStore and Syncer keeps
// that store in step with an upstream ports.RecordSource.
package catalog

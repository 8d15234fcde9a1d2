// Package writers streams labeled rows to the output sink.
//
// Design:
//   • Balanced owns the header/row protocol and class balancing; callers only Submit.
//   • Row layout comes from internal/output; writers never formats columns itself.
//   • Sink failures surface as *SinkError so the app can tell them from input errors.
package writers

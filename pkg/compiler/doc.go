// Package compiler turns a parsed form document into HTML markup. Each field
// is dispatched on its `type` tag to a Rule held in a Registry; the built-in
// registry covers filler, text, textarea, checkbox, button, select and radio.
//
// Output is byte-for-byte deterministic: attributes follow the declaration
// order of the field, values are interpolated verbatim (no escaping), and
// boolean attributes such as disabled or required are emitted bare only when
// their value is the exact string "true".
package compiler

// Package builder implements a stack-disciplined HTML serializer.
//
// A Builder writes opening tags, pushes their names on a stack and closes
// them strictly in LIFO order. Text that comes from a document goes through
// WriteContent, which escapes HTML-significant characters. Trusted
// compile-time constants (stylesheets, scripts, icons) go through WriteRaw
// and are written byte for byte.
//
// Unbalanced tag operations are programmer errors. They panic with an error
// wrapping one of the package sentinels so that callers recovering in tests
// can match them with errors.Is.
package builder

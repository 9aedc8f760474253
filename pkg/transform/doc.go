// Package transform holds the transformation procedures: the named,
// self-contained sequences of idempotent filesystem edits that convert
// an upstream application layout into the target library layout. Each
// procedure registers itself with the transformation registry under its
// version identifier, together with the semver range of upstream
// releases it covers.
package transform

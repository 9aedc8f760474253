// Package registry provides a generic, type-safe registry and the
// transformation registry built on top of it: transformation versions
// map to procedures through a fixed naming convention, while the
// "current" pointer is a separate single-line record so that changing
// the default transformation never touches the registry itself.
package registry

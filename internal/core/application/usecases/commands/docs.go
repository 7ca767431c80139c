// Package commands contains the operations that change the admin's view of the
// store or the store itself. Every command is built by its constructor and
// checked with Validate before its handler acts on it.
package commands

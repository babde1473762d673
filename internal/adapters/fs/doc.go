// Package fs implements the file-system adapters: the inbox file source,
// the outbox sender and the directory-backed thing service.
package fs

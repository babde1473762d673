package domain

import (
	"crypto"
	"crypto/x509"
	"time"
)

// File is a named payload submitted for sending.
// The pipeline reads it but never modifies it.
type File struct {
	// Name identifies the file, typically its base name in the inbox
	Name string

	// Content is the raw file bytes
	Content []byte
}

// Document is the recognized form of a File.
type Document struct {
	// Name is carried over from the originating file
	Name string

	// Content is the payload that gets signed and sent
	Content []byte

	// Created is when the document was issued
	Created time.Time

	// Format is the document format version (e.g., "4.0")
	Format string
}

// SignedContent is the output of signing a document's content.
type SignedContent []byte

// Credential holds the certificate and private key used for signing.
type Credential struct {
	Certificate *x509.Certificate
	Key         crypto.Signer
}

// Empty returns true if neither certificate nor key is set.
func (c Credential) Empty() bool {
	return c.Certificate == nil && c.Key == nil
}

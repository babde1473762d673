// Package http implements the document sender and thing service over HTTP.
package http

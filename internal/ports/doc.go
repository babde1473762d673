// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [Recognizer]: Interprets raw files as documents
//   - [Signer]: Signs document content under a credential
//   - [Sender]: Dispatches signed content
//   - [ThingService]: Slow or fallible thing lookups behind the cache
//   - [ThingStore]: In-memory storage used by the cache
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (file system, HTTP, X.509, go-cache, etc.).
package ports

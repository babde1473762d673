// Package domain contains the core domain entities and value objects for docship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [File]: A named payload handed to the pipeline by the caller
//   - [Document]: The recognized form of a file (content, creation time, format)
//   - [Outcome] and [Result]: What happened to each file of a batch
//   - [Thing]: The value object served by the read-through cache
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain

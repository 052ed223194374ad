// Package domain contains the core domain entities and value objects for
// the display daemon.
//
// This package is the innermost layer: it has no dependencies on
// infrastructure concerns (serial ports, sockets, logging) and contains
// only pure display logic.
//
// # Entities
//
//   - [Geometry]: The display's addressable layout (visible columns,
//     per-line buffer size, physical line offsets)
//   - [LinePair]: Two logical lines of text, produced fresh each tick
//   - [Content]: A line pair together with its placement policy
//   - [Message]: An externally submitted message with its arrival time
//     and display windows
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain

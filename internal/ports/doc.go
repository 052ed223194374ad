// Package ports defines the interfaces that connect the scheduling core
// to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. The tick loop in internal/app depends only on these
// interfaces; internal/adapters supplies the concrete serial, UDP and
// file-watching implementations.
//
// # Port Interfaces
//
//   - [Transport]: Delivers framed bytes to the physical display
//   - [Source]: Produces display content for one rotation slot
//   - [MessageSink]: Accepts externally submitted messages
//   - [Logger]: Structured logging abstraction
//
// This separation keeps the scheduler testable with fakes and lets the
// serial device be swapped out without touching scheduling logic.
package ports

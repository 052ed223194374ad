// Package log provides the logging abstraction used by the display daemon.
//
// The Logger interface can be implemented by any logging library; a
// zerolog console adapter and a no-op logger are provided. Internal
// packages depend only on the interface, so tests run silent and
// embedders can plug in their own logging.
//
//	logger := log.NewConsoleLogger()
//	logger.Info("listening", log.String("addr", addr))
package log

// Package logger provides a simple, thread-safe logging facility.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional scope, and message.
// The scope is usually the name of the scenario being run.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "Run started")
//	logger.Info("guarded-division", "Scenario completed")
//	logger.Warn("cleanup", "Fault escaped: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("nested-call", "Debug message")
//
// # Output
//
// The default logger writes to stderr. Standard output carries the
// demonstration transcript and nothing else.
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// # Thread Safety
//
// All logging operations are protected by a mutex and safe for concurrent use.
package logger

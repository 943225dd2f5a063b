// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder and an optional
//     rotating JSON file sink,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and configuration,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Both controller loops receive a context and log through it, so every entry
// carries the component name it was produced by.
package logger

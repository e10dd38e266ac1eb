// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing a console format to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, so every step of
// an update run logs under the same name and fields.
package logger

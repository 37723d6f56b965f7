// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug in
// any structured logger.
//
// Components accept a Logger via their options and default to NoOpLogger,
// keeping library output silent unless the caller opts in. SlogAdapter wraps
// any *slog.Logger; NewLogger builds one from a small config for programs
// that do not already carry a logger.
package logging

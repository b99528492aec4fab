// SPDX-License-Identifier: EPL-2.0

// Package logging provides a small leveled logger for the player.
//
// It supports the following log levels:
//   - DEBUG: discovery and decoding details
//   - INFO: general operational messages
//   - WARN: recoverable problems (the default threshold)
//   - ERROR: error conditions
//
// The level is set from the command line (--verbose, --log-level); the
// player reads no environment variables. Messages go to stderr unless SetOutput is called.
package logging

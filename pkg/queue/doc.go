// Package queue provides the Queue type, the single entry point of a serial
// work queue.
//
// This package includes:
//   - Queue: the mailbox dispatcher that stores items and handles commands
//   - Option: configuration for logging, mailbox size, locking and resuming
//   - Event subscription for monitoring
//
// Most users should import the root package github.com/jdziat/simple-serial-queue
// which re-exports Queue and all option functions.
package queue

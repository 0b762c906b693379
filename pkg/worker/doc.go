// Package worker provides the engine state and the drain loop.
//
// This package includes:
//   - State and Txn: the phase and active run, mutated only inside State.Do
//   - Handle: one worker run, with an id for log correlation
//   - Worker: drains a store one item at a time through a Consumer
//
// Most users should import the root package github.com/jdziat/simple-serial-queue
// which wires a Worker into a Queue.
package worker

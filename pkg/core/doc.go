// Package core provides the fundamental types and interfaces for the serialq package.
//
// This package contains:
//   - WorkItem, the persisted row model with GORM annotations
//   - Phase, Directive and Command, the engine's small state vocabulary
//   - Store and Backend interfaces defining the persistence contract
//   - Consumer, the callback set a host application plugs into the engine
//   - Event types for queue monitoring
//   - Error types for storage and protocol failures
//
// Most users should import the root package github.com/jdziat/simple-serial-queue
// instead of this package directly.
package core

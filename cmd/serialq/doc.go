// Command serialq inspects and edits a serial queue's store while no host
// process is draining it.
//
// Read commands (status, list) work at any time. Commands that change the
// store (submit, skip-first, clear) take the store's lock file first and
// refuse to run while a host holds it.
package main

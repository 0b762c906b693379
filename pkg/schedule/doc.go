// Package schedule provides schedules for resuming paused queues.
//
// This package includes:
//   - Schedule interface for computing the next due time
//   - Every() for fixed-interval schedules
//   - Daily() for daily schedules at a specific time
//   - Weekly() for weekly schedules on a specific day and time
//   - Cron() and ParseCron() for cron expression-based schedules
//
// Most users should import the root package github.com/jdziat/simple-serial-queue
// which re-exports these functions.
package schedule

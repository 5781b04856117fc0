// Package queue implements generic queues, task managers and trackers for
// sequential and deferred processing of work items.
package queue

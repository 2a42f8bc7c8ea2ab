// Package pubsub provides a publish-subscribe interface for job and
// dataset event fan-out.
//
// # Overview
//
// This package provides a unified interface for pub/sub messaging used
// to push job status/progress updates to a Data Scientist's client and
// dataset publish/delete notifications to a datasite owner's dashboard.
// The primary implementation uses Redis for horizontal scaling across
// multiple server instances; an in-memory implementation covers tests
// and single-process deployments.
//
// # Architecture
//
// ```
// ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
// │ Job Runner  │     │   Redis     │     │ Client facade│
// │ (Publish)   │────▶│   Pub/Sub   │────▶│  (Subscribe)│
// └─────────────┘     └─────────────┘     └─────────────┘
//
//	│                    │                   │
//	│                    │                   │
//
// ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
// │ output.     │     │  Topic:     │     │ CLI / client│
// │ EventBus    │     │ job:{id}    │     │ poller      │
// │ Handler     │     │ dataset:{} │     │             │
// └─────────────┘     └─────────────┘     └─────────────┘
// ```
//
// # Usage
//
// Initialize the pub/sub client:
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//	ps := pubsub.NewRedisPubSub(redisClient)
//
// Publish an event:
//
//	err := ps.Publish(ctx, pubsub.JobTopic(jobID), &pubsub.JobEvent{
//		JobID:  jobID,
//		Status: "job_in_progress",
//	})
//
// Subscribe to events:
//
//	ch, unsub := ps.Subscribe(ctx, pubsub.JobTopic(jobID))
//	defer unsub()
//	for msg := range ch {
//		var event pubsub.JobEvent
//		json.Unmarshal(msg, &event)
//		// Handle event
//	}
//
// # Topics
//
// Topics follow a hierarchical naming convention:
//   - job:{id} - Job status and progress updates
//   - dataset:{id} - Dataset publish/delete events
//   - owner:jobs:{email} - Every job event belonging to a datasite owner
//
// # Event Types
//
// Each topic has corresponding event types defined in events.go:
//   - JobEvent - Job status, progress, and completion
//   - DatasetEvent - Dataset publish/delete notifications
package pubsub

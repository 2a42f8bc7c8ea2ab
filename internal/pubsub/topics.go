package pubsub

import "fmt"

// Topic constants and helper functions for subscription topics.
// Topics follow a hierarchical naming convention: {resource}:{id}

const (
	prefixJob       = "job"
	prefixDataset   = "dataset"
	prefixOwnerJobs = "owner:jobs"
)

// JobTopic returns the topic for status/progress events on one job.
// Subscribers receive JobEvent messages.
func JobTopic(jobID string) string {
	return fmt.Sprintf("%s:%s", prefixJob, jobID)
}

// DatasetTopic returns the topic for publish/delete events on one
// dataset. Subscribers receive DatasetEvent messages.
func DatasetTopic(datasetID string) string {
	return fmt.Sprintf("%s:%s", prefixDataset, datasetID)
}

// OwnerJobsTopic returns the topic for every job event belonging to a
// datasite owner, used by a DO-facing dashboard list view.
func OwnerJobsTopic(ownerEmail string) string {
	return fmt.Sprintf("%s:%s", prefixOwnerJobs, ownerEmail)
}

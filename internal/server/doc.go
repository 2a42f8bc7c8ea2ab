// Package server builds the rpc.Router a Data Owner's process serves:
// one gate-enforced handler per entity endpoint
// (rds/<kind>/create|get_one|get_all|update|delete) plus the Job
// lifecycle verbs dispatched onto internal/job.Machine. The resulting
// Router is wrapped by an FSTransport for remote Data Scientists, or
// by a MockTransport for a Data Scientist co-located in the same
// process — the handlers themselves never know which.
package server

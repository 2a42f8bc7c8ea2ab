// Package output defines the handler contract a JobRunner notifies as
// a job progresses, and the concrete handlers wired into a server:
// writing logs to disk, mirroring them through a structured logger,
// publishing status/progress events for a client to subscribe to, and
// mirroring the finished output directory to S3.
//
// A runner never depends on these concrete handlers directly — it only
// sees the Handler interface, fed through a HandlerChain — so adding a
// new sink (e.g. a metrics handler) never touches runner code.
package output

// Package client is the facade a Data Owner's own code and a Data
// Scientist's CLI both program against. Every per-kind sub-client
// offers the same CRUD surface whether Mode is ModeLocal (requests
// dispatched through an in-process rpc.MockTransport to the Data
// Owner's server Router, in the Data Owner's own process) or
// ModeRPC (requests sent over an rpc.Transport to a remote Data
// Owner), so callers never branch on which side of the mailbox they
// are on.
package client

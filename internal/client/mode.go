package client

// Mode selects how a sub-client reaches the datasite's data: through an
// in-process rpc.MockTransport to the Data Owner's server Router when
// co-located with the Data Owner's process, or over an rpc.FSTransport
// when acting as a remote Data Scientist.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRPC
)

func (m Mode) String() string {
	if m == ModeRPC {
		return "rpc"
	}
	return "local"
}

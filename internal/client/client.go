package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"rds/internal/entity"
	"rds/internal/rpc"
	"rds/internal/server"
)

// defaultRequestTimeout bounds how long a single call waits for a
// Response before giving up, matching rpc.Request.ExpiresAt semantics.
const defaultRequestTimeout = 30 * time.Second

// Client is the facade a Data Owner's own code and a Data Scientist's
// CLI both program against. It owns nothing but a Transport, the
// caller's email to stamp onto every Request, and the Mode that
// Transport was built in.
type Client struct {
	transport      rpc.Transport
	mode           Mode
	senderEmail    string
	requestTimeout time.Duration

	Datasets        *DatasetClient
	Runtimes        *RuntimeClient
	UserCodes       *UserCodeClient
	CustomFunctions *CustomFunctionClient
	Jobs            *JobClient
}

// NewLocal builds a Client that dispatches directly against router,
// in-process, through an rpc.MockTransport with no mailbox files in
// between: the Data Scientist is
// co-located with the Data Owner's server in the same program.
func NewLocal(router *rpc.Router, senderEmail string) *Client {
	return newClient(rpc.NewMockTransport(router), ModeLocal, senderEmail)
}

// NewRemote builds a Client that dispatches over transport, the real
// mailbox path between a Data Scientist's process and a remote Data
// Owner's.
func NewRemote(transport *rpc.FSTransport, senderEmail string) *Client {
	return newClient(transport, ModeRPC, senderEmail)
}

func newClient(transport rpc.Transport, mode Mode, senderEmail string) *Client {
	c := &Client{
		transport:      transport,
		mode:           mode,
		senderEmail:    senderEmail,
		requestTimeout: defaultRequestTimeout,
	}
	c.Datasets = &DatasetClient{c: c}
	c.Runtimes = &RuntimeClient{c: c}
	c.UserCodes = &UserCodeClient{c: c}
	c.CustomFunctions = &CustomFunctionClient{c: c}
	c.Jobs = &JobClient{c: c}
	return c
}

// Mode reports whether this Client was built over a local MockTransport
// or a real FSTransport.
func (c *Client) Mode() Mode { return c.mode }

// call sends one request/response round trip: in is yaml-encoded as
// the Request body (nil is sent as an empty body), and out, if
// non-nil, receives the decoded Response body on success.
func (c *Client) call(ctx context.Context, endpoint rpc.Endpoint, in, out any) error {
	var body []byte
	if in != nil {
		encoded, err := yaml.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		body = encoded
	}

	now := time.Now().UTC()
	req := rpc.Request{
		ID:        uuid.New(),
		Endpoint:  endpoint,
		Sender:    c.senderEmail,
		Body:      body,
		SentAt:    now,
		ExpiresAt: now.Add(c.requestTimeout),
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return responseError(resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("client: decoding response: %w", err)
	}
	return nil
}

// responseError maps a non-2xx Response back onto the entity sentinel
// errors the status convention carries, so callers can use errors.Is
// against entity.ErrNotFound/ErrPermission/etc. regardless of whether
// they are talking to a local or a remote server.
func responseError(resp rpc.Response) error {
	switch resp.Status {
	case rpc.StatusNotFound:
		return fmt.Errorf("%w: %s", entity.ErrNotFound, resp.Error)
	case rpc.StatusForbidden:
		return fmt.Errorf("%w: %s", entity.ErrPermission, resp.Error)
	case rpc.StatusConflict:
		if strings.Contains(resp.Error, entity.ErrNotReady.Error()) {
			return fmt.Errorf("%w: %s", entity.ErrNotReady, resp.Error)
		}
		return fmt.Errorf("client: %s", resp.Error)
	case rpc.StatusBadRequest:
		return fmt.Errorf("client: bad request: %s", resp.Error)
	default:
		return fmt.Errorf("client: %s (status %d)", resp.Error, resp.Status)
	}
}

// uidRequest is the shape every get_one/update/delete endpoint decodes
// its target record from.
type uidRequest struct {
	UID uuid.UUID
}

// partialRequest is the shape every update endpoint decodes.
type partialRequest struct {
	UID     uuid.UUID
	Partial map[string]any
}

// deletedResponse is the shape every delete endpoint replies with.
type deletedResponse struct {
	Deleted bool
}

var (
	datasetCreate = server.DatasetCreate
	datasetGetOne = server.DatasetGetOne
	datasetGetAll = server.DatasetGetAll
	datasetUpdate = server.DatasetUpdate
	datasetDelete = server.DatasetDelete

	runtimeCreate = server.RuntimeCreate
	runtimeGetOne = server.RuntimeGetOne
	runtimeGetAll = server.RuntimeGetAll
	runtimeUpdate = server.RuntimeUpdate
	runtimeDelete = server.RuntimeDelete

	userCodeCreate = server.UserCodeCreate
	userCodeGetOne = server.UserCodeGetOne
	userCodeGetAll = server.UserCodeGetAll
	userCodeUpdate = server.UserCodeUpdate
	userCodeDelete = server.UserCodeDelete

	customFunctionCreate = server.CustomFunctionCreate
	customFunctionGetOne = server.CustomFunctionGetOne
	customFunctionGetAll = server.CustomFunctionGetAll
	customFunctionUpdate = server.CustomFunctionUpdate
	customFunctionDelete = server.CustomFunctionDelete

	jobSubmit       = server.JobSubmit
	jobGetOne       = server.JobGetOne
	jobGetAll       = server.JobGetAll
	jobApprove      = server.JobApprove
	jobReject       = server.JobReject
	jobRun          = server.JobRun
	jobRunPrivate   = server.JobRunPrivate
	jobShareResults = server.JobShareResults
	jobGetLogs      = server.JobGetLogs
	jobDelete       = server.JobDelete
)

// errNotReady re-exports entity.ErrNotReady for GetLogs callers who
// only import this package.
var errNotReady = entity.ErrNotReady

// IsNotReady reports whether err is (or wraps) the not-ready sentinel,
// e.g. from JobClient.GetLogs before a job has run.
func IsNotReady(err error) bool { return errors.Is(err, errNotReady) }

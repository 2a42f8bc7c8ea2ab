package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rds/internal/authz"
	"rds/internal/entity"
	"rds/internal/job"
	"rds/internal/rpc"
	"rds/internal/store"
)

// Server is the dependency-injection root for the Data Owner's side of
// the mailbox: every Router handler closes over the stores, gate and
// job machine assembled here rather than reaching for package-level
// state.
type Server struct {
	datasets        store.Store[entity.Dataset]
	runtimes        store.Store[entity.Runtime]
	userCodes       store.Store[entity.UserCode]
	customFunctions store.Store[entity.CustomFunction]
	jobs            store.Store[entity.Job]

	gate    *authz.Gate
	machine *job.Machine
	baseDir string
	log     *zap.Logger
}

// New builds a Server. baseDir is the datasite root under which job
// log files live (<baseDir>/jobs/<uid>/logs/{stdout,stderr}.log),
// matching the layout internal/output.FileHandler writes.
func New(
	datasets store.Store[entity.Dataset],
	runtimes store.Store[entity.Runtime],
	userCodes store.Store[entity.UserCode],
	customFunctions store.Store[entity.CustomFunction],
	jobs store.Store[entity.Job],
	gate *authz.Gate,
	machine *job.Machine,
	baseDir string,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		datasets:        datasets,
		runtimes:        runtimes,
		userCodes:       userCodes,
		customFunctions: customFunctions,
		jobs:            jobs,
		gate:            gate,
		machine:         machine,
		baseDir:         baseDir,
		log:             log,
	}
}

// Build assembles the Router every inbound request is dispatched
// against, whether arriving over an rpc.FSTransport or an in-process
// rpc.MockTransport.
func (s *Server) Build() *rpc.Router {
	r := rpc.NewRouter()

	r.Handle(Health, s.handleHealth)

	s.registerDatasetHandlers(r)
	s.registerRuntimeHandlers(r)
	s.registerUserCodeHandlers(r)
	s.registerCustomFunctionHandlers(r)
	s.registerJobHandlers(r)

	return r
}

func (s *Server) handleHealth(ctx context.Context, req rpc.Request) rpc.Response {
	return reply(req, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// withCaller stamps req.Sender onto ctx so every Gate check downstream
// sees the calling Data Scientist or the datasite owner.
func withCaller(ctx context.Context, req rpc.Request) context.Context {
	return authz.WithCallerEmail(ctx, req.Sender)
}

package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"rds/internal/entity"
	"rds/internal/job"
	"rds/internal/rpc"
	"rds/internal/store"
)

func (s *Server) registerJobHandlers(r *rpc.Router) {
	r.Handle(JobSubmit, s.handleJobSubmit)
	r.Handle(JobGetOne, s.handleJobGetOne)
	r.Handle(JobGetAll, s.handleJobGetAll)
	r.Handle(JobApprove, s.handleJobApprove)
	r.Handle(JobReject, s.handleJobReject)
	r.Handle(JobRun, s.handleJobRun)
	r.Handle(JobRunPrivate, s.handleJobRunPrivate)
	r.Handle(JobShareResults, s.handleJobShareResults)
	r.Handle(JobGetLogs, s.handleJobGetLogs)
	r.Handle(JobDelete, s.handleJobDelete)
}

func (s *Server) handleJobSubmit(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in job.SubmitRequest
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	created, err := s.machine.Submit(ctx, in)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, created)
}

func (s *Server) handleJobGetOne(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.jobs.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	if err := s.gate.CanReadJob(ctx, j.CreatedBy); err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobGetAll(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var q store.Query
	if resp, ok := decode(req, &q); !ok {
		return resp
	}
	all, err := s.jobs.GetAll(ctx, q)
	if err != nil {
		return fail(req, err)
	}
	visible := make([]entity.Job, 0, len(all))
	for _, j := range all {
		if s.gate.CanReadJob(ctx, j.CreatedBy) == nil {
			visible = append(visible, j)
		}
	}
	return reply(req, visible)
}

func (s *Server) handleJobApprove(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.machine.Approve(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobReject(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.machine.Reject(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobRun(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.machine.Run(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobRunPrivate(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct {
		UID   uuid.UUID
		Force bool
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.machine.RunPrivate(ctx, in.UID, in.Force)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobShareResults(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	j, err := s.machine.ShareResults(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, j)
}

func (s *Server) handleJobDelete(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct {
		UID                    uuid.UUID
		DeleteOrphanedUserCode bool
	}
	if resp, ok := decode(req, &in); !ok {
		return resp
	}
	deleted, err := s.machine.Delete(ctx, in.UID, in.DeleteOrphanedUserCode)
	if err != nil {
		return fail(req, err)
	}
	return reply(req, map[string]bool{"deleted": deleted})
}

// jobLogs carries the plain-text contents of a job's stdout and
// stderr log files, as written by internal/output.FileHandler.
type jobLogs struct {
	Stdout string
	Stderr string
}

func (s *Server) handleJobGetLogs(ctx context.Context, req rpc.Request) rpc.Response {
	ctx = withCaller(ctx, req)
	var in struct{ UID uuid.UUID }
	if resp, ok := decode(req, &in); !ok {
		return resp
	}

	j, err := s.jobs.GetByUID(ctx, in.UID)
	if err != nil {
		return fail(req, err)
	}
	if err := s.gate.CanReadJob(ctx, j.CreatedBy); err != nil {
		return fail(req, err)
	}

	logDir := filepath.Join(s.baseDir, "jobs", j.UID.String(), "logs")
	if _, err := os.Stat(logDir); err != nil {
		if os.IsNotExist(err) {
			return fail(req, fmt.Errorf("%w: no logs recorded yet for job %s", entity.ErrNotReady, j.UID))
		}
		return fail(req, err)
	}

	stdout, err := readLogFile(filepath.Join(logDir, "stdout.log"))
	if err != nil {
		return fail(req, err)
	}
	stderr, err := readLogFile(filepath.Join(logDir, "stderr.log"))
	if err != nil {
		return fail(req, err)
	}
	return reply(req, jobLogs{Stdout: stdout, Stderr: stderr})
}

// readLogFile returns the file's contents, or "" if it does not exist:
// a job that failed before stderr was ever written is not an error.
func readLogFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"rds/internal/client"
	"rds/internal/entity"
	"rds/internal/enum"
	"rds/internal/job"
	"rds/internal/rpc"
	"rds/internal/store"
)

var jobsCommand = &cli.Command{
	Name:  "jobs",
	Usage: "Manage jobs: list, inspect, review and run",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List jobs visible to --as",
			Flags:  []cli.Flag{baseDirFlag, asFlag},
			Action: jobsList,
		},
		{
			Name:      "get",
			Usage:     "Show one job",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsGet,
		},
		{
			Name:      "approve",
			Usage:     "Approve a job pending review",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsApprove,
		},
		{
			Name:      "reject",
			Usage:     "Reject a job pending review",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsReject,
		},
		{
			Name:      "run",
			Usage:     "Run an approved job",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsRun,
		},
		{
			Name:      "logs",
			Usage:     "Show a job's recorded stdout/stderr",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsLogs,
		},
		{
			Name:      "share",
			Usage:     "Share a finished job's results with its submitter",
			ArgsUsage: "<job-uid>",
			Flags:     []cli.Flag{baseDirFlag, asFlag},
			Action:    jobsShare,
		},
		{
			Name:      "delete",
			Usage:     "Delete a job",
			ArgsUsage: "<job-uid>",
			Flags: []cli.Flag{baseDirFlag, asFlag, &cli.BoolFlag{
				Name:  "delete-orphaned-usercode",
				Usage: "Also delete the job's UserCode if no other job references it",
			}},
			Action: jobsDelete,
		},
	},
}

var submitCommand = &cli.Command{
	Name:      "submit",
	Usage:     "Submit UserCode against a Dataset for review",
	ArgsUsage: "<dataset-name> <entrypoint> <local-dir>",
	Flags: []cli.Flag{
		baseDirFlag, asFlag,
		&cli.StringFlag{Name: "name", Usage: "Name for the submitted UserCode"},
		&cli.StringFlag{Name: "runtime", Usage: "Runtime name to run the job under"},
		&cli.StringFlag{Name: "description"},
	},
	Action: runSubmit,
}

func newRemoteClient(c *cli.Context) (*client.Client, error) {
	email, err := requireAs(c)
	if err != nil {
		return nil, err
	}
	transport, err := rpc.NewFSTransport(c.String("base-dir"), email)
	if err != nil {
		return nil, fmt.Errorf("rds: preparing mailbox: %w", err)
	}
	return client.NewRemote(transport, email), nil
}

func requireJobUID(c *cli.Context) (uuid.UUID, error) {
	if c.Args().Len() < 1 {
		return uuid.UUID{}, fmt.Errorf("rds: a job uid argument is required")
	}
	return uuid.Parse(c.Args().First())
}

func jobsList(c *cli.Context) error {
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	ctx := context.Background()
	jobs, err := cl.Jobs.GetAll(ctx, store.Query{})
	if err != nil {
		return err
	}
	for _, j := range jobs {
		printJobSummary(j.Name, j.UID, j.Status)
	}
	return nil
}

func jobsGet(c *cli.Context) error {
	uid, err := requireJobUID(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	j, err := cl.Jobs.Get(context.Background(), uid)
	if err != nil {
		return err
	}
	fmt.Printf("%+v\n", j)
	return nil
}

func jobsApprove(c *cli.Context) error {
	return withJobUID(c, func(ctx context.Context, cl *client.Client, uid uuid.UUID) (entity.Job, error) {
		return cl.Jobs.Approve(ctx, uid)
	})
}

func jobsReject(c *cli.Context) error {
	return withJobUID(c, func(ctx context.Context, cl *client.Client, uid uuid.UUID) (entity.Job, error) {
		return cl.Jobs.Reject(ctx, uid)
	})
}

func jobsRun(c *cli.Context) error {
	return withJobUID(c, func(ctx context.Context, cl *client.Client, uid uuid.UUID) (entity.Job, error) {
		return cl.Jobs.Run(ctx, uid)
	})
}

func jobsShare(c *cli.Context) error {
	return withJobUID(c, func(ctx context.Context, cl *client.Client, uid uuid.UUID) (entity.Job, error) {
		return cl.Jobs.ShareResults(ctx, uid)
	})
}

func withJobUID(c *cli.Context, fn func(context.Context, *client.Client, uuid.UUID) (entity.Job, error)) error {
	uid, err := requireJobUID(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	j, err := fn(context.Background(), cl, uid)
	if err != nil {
		return err
	}
	printJobSummary(j.Name, j.UID, j.Status)
	return nil
}

func jobsLogs(c *cli.Context) error {
	uid, err := requireJobUID(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	logs, err := cl.Jobs.GetLogs(context.Background(), uid)
	if err != nil {
		if client.IsNotReady(err) {
			fmt.Println("no logs recorded yet")
			return nil
		}
		return err
	}
	fmt.Println("--- stdout ---")
	fmt.Println(logs.Stdout)
	fmt.Println("--- stderr ---")
	fmt.Println(logs.Stderr)
	return nil
}

func jobsDelete(c *cli.Context) error {
	uid, err := requireJobUID(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	deleted, err := cl.Jobs.Delete(context.Background(), uid, c.Bool("delete-orphaned-usercode"))
	if err != nil {
		return err
	}
	fmt.Printf("deleted: %v\n", deleted)
	return nil
}

func runSubmit(c *cli.Context) error {
	if c.Args().Len() < 3 {
		return fmt.Errorf("rds: usage: rds submit <dataset-name> <entrypoint> <local-dir>")
	}
	email, err := requireAs(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}

	created, err := cl.Jobs.Submit(context.Background(), job.SubmitRequest{
		DatasetName: c.Args().Get(0),
		RuntimeName: c.String("runtime"),
		UserCode: entity.UserCodeCreate{
			Name:       c.String("name"),
			Entrypoint: c.Args().Get(1),
			CodeType:   enum.CodeTypeFile,
			LocalDir:   c.Args().Get(2),
			CreatedBy:  email,
		},
		CreatedBy:   email,
		Description: c.String("description"),
	})
	if err != nil {
		return err
	}
	printJobSummary(created.Name, created.UID, created.Status)
	return nil
}

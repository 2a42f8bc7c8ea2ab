package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"rds/internal/entity"
	"rds/internal/store"
)

var datasetsCommand = &cli.Command{
	Name:  "datasets",
	Usage: "Manage published datasets",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List published datasets",
			Flags:  []cli.Flag{baseDirFlag, asFlag},
			Action: datasetsList,
		},
		{
			Name:      "publish",
			Usage:     "Publish a dataset's mock and private paths",
			ArgsUsage: "<name> <mock-path> <private-path>",
			Flags: []cli.Flag{baseDirFlag, asFlag, &cli.StringFlag{
				Name:  "summary",
				Usage: "Human-readable summary shown to Data Scientists",
			}},
			Action: datasetsPublish,
		},
	},
}

func datasetsList(c *cli.Context) error {
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}
	datasets, err := cl.Datasets.GetAll(context.Background(), store.Query{})
	if err != nil {
		return err
	}
	for _, ds := range datasets {
		fmt.Printf("%s: %s\n", ds.Name, ds.Summary)
	}
	return nil
}

func datasetsPublish(c *cli.Context) error {
	if c.Args().Len() < 3 {
		return fmt.Errorf("rds: usage: rds datasets publish <name> <mock-path> <private-path>")
	}
	email, err := requireAs(c)
	if err != nil {
		return err
	}
	cl, err := newRemoteClient(c)
	if err != nil {
		return err
	}

	created, err := cl.Datasets.Create(context.Background(), entity.DatasetCreate{
		Name:        c.Args().Get(0),
		MockPath:    c.Args().Get(1),
		PrivatePath: c.Args().Get(2),
		Summary:     c.String("summary"),
		CreatedBy:   email,
	})
	if err != nil {
		return err
	}
	fmt.Printf("published %s (%s)\n", created.Name, created.UID)
	return nil
}

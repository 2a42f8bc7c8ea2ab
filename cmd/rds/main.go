// Command rds is both sides of the datasite mailbox: `rds serve` runs
// a Data Owner's process, every other subcommand acts as a Data
// Scientist (or owner) client sending requests into that mailbox.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"rds/internal/enum"
)

func main() {
	app := &cli.App{
		Name:    "rds",
		Usage:   "Remote Data Science control plane",
		Version: "0.1.0",
		Commands: []*cli.Command{
			serveCommand,
			submitCommand,
			jobsCommand,
			datasetsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// baseDirFlag is shared by every subcommand and asFlag by every
// subcommand except serve: baseDirFlag names the shared datasite
// directory both sides read/write, asFlag is the email a client stamps
// onto every outgoing request.
var baseDirFlag = &cli.StringFlag{
	Name:    "base-dir",
	Usage:   "Datasite root directory shared between the Data Owner and Data Scientist",
	Value:   "./data",
	EnvVars: []string{"RDS_BASE_DIR"},
}

var asFlag = &cli.StringFlag{
	Name:    "as",
	Usage:   "Caller email stamped onto outgoing requests",
	EnvVars: []string{"RDS_EMAIL"},
}

func requireAs(c *cli.Context) (string, error) {
	email := c.String("as")
	if email == "" {
		return "", fmt.Errorf("rds: --as (or RDS_EMAIL) is required")
	}
	return email, nil
}

func printJobSummary(label string, uid uuid.UUID, status enum.JobStatus) {
	fmt.Printf("%s: %s [%s]\n", label, uid, status)
}

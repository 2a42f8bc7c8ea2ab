package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"rds/internal/entity"
)

const (
	defaultContainerWorkdir   = "/app"
	defaultContainerDataDir   = defaultContainerWorkdir + "/data"
	defaultContainerCodeDir   = defaultContainerWorkdir + "/code"
	defaultContainerOutputDir = defaultContainerWorkdir + "/output"
)

// jobPaths lays out one job's working tree under <baseDir>/jobs/<uid>,
// mirroring the function_folder/data_path/job_path/logs_dir/output_dir
// fields every runner prepares before execution.
type jobPaths struct {
	jobDir         string
	functionFolder string
	dataPath       string
	logsDir        string
	outputDir      string
}

func newJobPaths(baseDir string, job entity.Job, uc entity.UserCode, ds entity.Dataset) jobPaths {
	jobDir := filepath.Join(baseDir, "jobs", job.UID.String())
	return jobPaths{
		jobDir:         jobDir,
		functionFolder: uc.LocalDir,
		dataPath:       ds.PrivatePath,
		logsDir:        filepath.Join(jobDir, "logs"),
		outputDir:      filepath.Join(jobDir, "output"),
	}
}

// prepare validates the inputs exist and creates the job's own
// directories, matching the shared preparation step every runner kind
// performs before invoking the interpreter or container.
func (p jobPaths) prepare() error {
	if _, err := os.Stat(p.functionFolder); err != nil {
		return fmt.Errorf("%w: function folder %s: %v", ErrInvalidJobConfig, p.functionFolder, err)
	}
	if _, err := os.Stat(p.dataPath); err != nil {
		return fmt.Errorf("%w: data path %s: %v", ErrInvalidJobConfig, p.dataPath, err)
	}
	if err := os.MkdirAll(p.logsDir, 0o755); err != nil {
		return fmt.Errorf("runner: creating logs dir: %w", err)
	}
	if err := os.MkdirAll(p.outputDir, 0o777); err != nil {
		return fmt.Errorf("runner: creating output dir: %w", err)
	}
	return os.Chmod(p.outputDir, 0o777)
}

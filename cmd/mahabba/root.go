package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahabbalab/mahabba-server/internal/config"
	"github.com/mahabbalab/mahabba-server/internal/dataset"
	"github.com/mahabbalab/mahabba-server/internal/logger"
	"github.com/mahabbalab/mahabba-server/internal/service"
)

// cliLogLevel keeps tables readable unless a level is configured.
const cliLogLevel = "warn"

// app carries flag values and the services built from them.
type app struct {
	datasetPath string
	viewsFile   string
	view        string
	logLevel    string
	envFile     string

	out    io.Writer
	errOut io.Writer

	log   *logger.Logger
	atlas *service.AtlasService
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "mahabba",
		Short: "Inspect love-index aggregates over a corpus of historical texts",
		Long: `mahabba reads a tabular corpus of texts (CSV/TSV file, http(s) URL, or
sqlite://file.db?table=name), detects its columns, normalizes genre, century
and love index, and aggregates the result per century AH.

Views select the century window and minimum record count. Without --views the
built-in overview, scatter and genres views are available.

Example:
  mahabba inspect --dataset corpus.csv --view scatter`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.datasetPath, "dataset", "", "Dataset path, URL, or sqlite://file?table=name (env DATASET_PATH)")
	flags.StringVar(&a.viewsFile, "views", "", "Views YAML file (env VIEWS_FILE)")
	flags.StringVar(&a.view, "view", "", "View name (default: first configured view)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL, default warn)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Path to .env file")

	root.AddCommand(
		newColumnsCmd(a),
		newInspectCmd(a),
		newSeriesCmd(a),
		newExportCmd(a),
	)

	return root
}

// setup loads configuration and builds the atlas service for every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Flags{
		DatasetPath: a.datasetPath,
		ViewsFile:   a.viewsFile,
		LogLevel:    a.logLevel,
		EnvFile:     a.envFile,

		DefaultLogLevel: cliLogLevel,
	})
	if err != nil {
		return err
	}

	a.log = logger.New(logger.Config{
		Writer:      a.errOut,
		Format:      "pretty",
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
		NoColor:     os.Getenv("NO_COLOR") != "",
	})

	views, err := config.LoadViews(cfg.Dataset.ViewsFile)
	if err != nil {
		return err
	}

	source := dataset.New(cfg.Dataset.Path, dataset.Options{FetchTimeout: cfg.Dataset.FetchTimeout})
	a.atlas = service.NewAtlasService(source, views, a.log)

	a.log.Debug("cli ready", "command", cmd.Name(), "dataset", cfg.Dataset.Path, "views", views.Names())
	return nil
}

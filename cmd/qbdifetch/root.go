package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/config"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/fetch"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/platform"
	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/release"
)

type rootOptions struct {
	rulesFile string
	logLevel  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "qbdifetch [tag] [output_directory]",
		Short: "Download and unpack the QBDI Android x86_64 release",
		Long: `qbdifetch resolves a QBDI release tag on GitHub, picks the Android x86_64
archive from its assets, downloads it to a temporary file and extracts it
into the output directory.

Defaults: tag ` + fetch.DefaultTag + `, output directory ` + fetch.DefaultOutputDir + `.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "Lua rules file overriding the release source and asset selection")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

func runFetch(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()

	level, err := config.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := config.NewTextLogger(cmd.ErrOrStderr(), level)

	req := fetch.Request{}
	if len(args) > 0 {
		req.Tag = args[0]
	}
	if len(args) > 1 {
		req.OutputDir = args[1]
	}

	cfg := config.Default()
	if opts.rulesFile != "" {
		parser := config.NewParser(platform.NewDetector(), config.WithLogger(logger))
		cfg, err = parser.ParseFile(ctx, opts.rulesFile)
		if err != nil {
			return fmt.Errorf("load rules: %s", config.FormatError(err, level <= slog.LevelDebug))
		}
		logger.Debug("rules loaded", "file", opts.rulesFile, "rules", len(cfg.Rules))
	}

	var clientOpts []release.Option
	if cfg.Source.APIURL != "" {
		clientOpts = append(clientOpts, release.WithBaseURL(cfg.Source.APIURL))
	}

	mgr, err := fetch.NewManager(fetch.Config{
		Owner:   cfg.Source.Owner,
		Repo:    cfg.Source.Repo,
		TempDir: os.TempDir(),
		Rules:   cfg.Rules,
		Source:  release.NewClient(clientOpts...),
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	res, err := mgr.Install(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s (%s, %s) into %s\n", res.Asset.Name, res.Tag, res.Format, res.OutputDir)
	return nil
}

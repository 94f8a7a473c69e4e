package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yuya-takeyama/diffcopy/pkg/comparator"
	"github.com/yuya-takeyama/diffcopy/pkg/compare"
	"github.com/yuya-takeyama/diffcopy/pkg/logger"
	"github.com/yuya-takeyama/diffcopy/pkg/report"
	"github.com/yuya-takeyama/diffcopy/pkg/s3client"
	"github.com/yuya-takeyama/diffcopy/pkg/scanner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

const envPrefix = "DIFFCOPY"

// Section headers of the compare output.
const (
	headerNew         = "New Files"
	headerModified    = "Modified Files"
	headerNotInSource = "Files that don't exist in source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "diffcopy",
		Short: "Find files that differ between two directory trees",
		Long: `diffcopy compares a source directory with a destination directory and lists
the files that are new, modified, or missing from the source.`,
		Version:      fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCompareCmd(), newBenchCmd(), newStrategiesCmd())
	return rootCmd
}

// newViper binds the command's flags and DIFFCOPY_* environment variables.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <source> <dest>",
		Short: "List new, modified and destination-only files",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}

	cmd.Flags().String("strategy", string(comparator.StrategyBytes), "Comparison strategy (bytes, sha1, sha256)")
	cmd.Flags().Bool("prune", false, "Also list destination files that don't exist in source")
	cmd.Flags().StringSlice("exclude", nil, "Exclude patterns (multiple allowed)")
	cmd.Flags().Int("concurrency", 1, "Number of file pairs compared at once")
	cmd.Flags().String("report-json-file", "", "Path or s3:// URI to write the report as JSON")
	cmd.Flags().Bool("quiet", false, "Print one \"action: path\" line per changed file instead of the sections")
	cmd.Flags().Bool("verbose", false, "Log every phase and file")
	cmd.Flags().String("profile", "", "AWS profile to use for s3:// reports")
	cmd.Flags().String("region", "", "AWS region (uses default if not specified)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}

	sourceRoot, destRoot := args[0], args[1]
	strategy := comparator.Strategy(v.GetString("strategy"))
	prune := v.GetBool("prune")
	out := cmd.OutOrStdout()

	fsys := scanner.OSFS()
	cmp, err := comparator.New(fsys, strategy)
	if err != nil {
		return err
	}

	quiet := v.GetBool("quiet")
	dc := compare.NewDirComparer(fsys, cmp, newLogger(v, out, cmd.ErrOrStderr()))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := dc.Compare(ctx, sourceRoot, destRoot, compare.Options{
		Prune:       prune,
		Excludes:    v.GetStringSlice("exclude"),
		Concurrency: v.GetInt("concurrency"),
	})
	if err != nil {
		return fmt.Errorf("failed to compare: %w", err)
	}

	if !quiet {
		printResult(out, result, prune)
	}

	if dest := v.GetString("report-json-file"); dest != "" {
		rep := report.New(sourceRoot, destRoot, string(strategy), prune, result)
		writer, err := newReportWriter(ctx, v, dest)
		if err != nil {
			return err
		}
		if err := writer.Write(ctx, dest, rep); err != nil {
			return fmt.Errorf("failed to write report JSON: %w", err)
		}
	}

	return nil
}

// newLogger picks the progress logger: --verbose logs to stderr, --quiet prints changed items to stdout.
func newLogger(v *viper.Viper, out, errOut io.Writer) logger.Logger {
	switch {
	case v.GetBool("verbose"):
		return logger.NewVerboseLogger(errOut)
	case v.GetBool("quiet"):
		return &logger.QuietLogger{Out: out}
	default:
		return &logger.NullLogger{}
	}
}

// newReportWriter loads AWS configuration only when the report goes to S3.
func newReportWriter(ctx context.Context, v *viper.Viper, dest string) (*report.Writer, error) {
	if !s3client.IsS3URI(dest) {
		return report.NewWriter(nil), nil
	}

	var configOpts []func(*config.LoadOptions) error
	if profile := v.GetString("profile"); profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(profile))
	}
	if region := v.GetString("region"); region != "" {
		configOpts = append(configOpts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return report.NewWriter(s3client.NewAWSClient(cfg)), nil
}

func printResult(w io.Writer, result *compare.Result, prune bool) {
	printSection(w, headerNew, result.NewFiles())
	printSection(w, headerModified, result.ModifiedFiles())
	if prune {
		printSection(w, headerNotInSource, result.NotInSource())
	}
}

func printSection(w io.Writer, header string, paths []string) {
	fmt.Fprintf(w, "%s (%d)\n", header, len(paths))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List comparison strategies",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range comparator.Strategies() {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
		},
	}
}

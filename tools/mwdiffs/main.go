// Compute revision diffs from wikipedia dumps or revision documents.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/juju/loggo"
	"github.com/spf13/cobra"
)

var logger = loggo.GetLogger("mwdiffs.cmd")

var (
	debug bool

	rootCmd = &cobra.Command{
		Use:   "mwdiffs",
		Short: "Utilities for processing revision diffs",
		Long: `mwdiffs computes token level diffs between consecutive revisions
of MediaWiki pages and writes one JSON revision document per line,
each carrying a "diff" field.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "INFO"
			if debug {
				level = "DEBUG"
			}
			return loggo.ConfigureLoggers("<root>=" + level)
		},
	}

	dump2diffsCmd = &cobra.Command{
		Use:   "dump2diffs [<input-file>...]",
		Short: "Generates diffs from XML dumps",
		Long: `Computes diffs from MediaWiki XML dumps.  With --index, the single
input is a multistream dump read in parallel using its index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpFlags.run(cmd.Context(), dumpInput, args)
		},
	}

	revdocs2diffsCmd = &cobra.Command{
		Use:   "revdocs2diffs [<input-file>...]",
		Short: "Generates diffs from page-partitioned revision documents",
		Long: `Computes diffs from a page-partitioned sequence of JSON revision
documents, one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return revDocFlags.run(cmd.Context(), revDocInput, args)
		},
	}

	dumpFlags, revDocFlags = &runFlags{}, &runFlags{}
)

func (f *runFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "The path to a diff engine configuration")
	fl.StringVar(&f.namespaces, "namespaces", allNamespaces,
		"A comma separated list of namespace IDs to be considered")
	fl.Float64Var(&f.timeout, "timeout", 10,
		"The maximum number of seconds a diff may run before being stopped (<= 0 for no limit)")
	fl.BoolVar(&f.keepText, "keep-text", false,
		"If set, the 'text' field will not be dropped after diffs are computed")
	fl.IntVar(&f.threads, "threads", runtime.NumCPU(),
		"If a collection of files are provided, how many processor threads")
	fl.StringVar(&f.output, "output", "",
		"Write output to a directory with one output file per input path [default: stdout]")
	fl.StringVar(&f.compress, "compress", "bz2",
		"Compression of files written to the output directory (bz2, gz, zst or none)")
	fl.StringVar(&f.store, "store", "",
		"Load the output into a document store, e.g. mongodb://localhost/wp/diffs")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "",
		"Serve prometheus metrics on this address")
	fl.BoolVar(&f.verbose, "verbose", false, "Print progress information to stderr")
	cmd.MarkFlagRequired("config")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug logs to stderr")

	dumpFlags.register(dump2diffsCmd)
	dump2diffsCmd.Flags().StringVar(&dumpFlags.index, "index", "",
		"The multistream index of the (single) input dump")
	revDocFlags.register(revdocs2diffsCmd)

	rootCmd.AddCommand(dump2diffsCmd)
	rootCmd.AddCommand(revdocs2diffsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Package cmd provides the command-line interface of seqmapctl.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seqmapctl",
	Short: "seqmapctl runs key allocation scenarios against sequential-key maps.",
	Long: `seqmapctl runs key allocation scenarios against sequential-key maps. ` +
		`Settings are read from a .env file and SEQMAP_* environment variables; ` +
		`flags take precedence.`,
}

func init() {
	rootCmd.PersistentFlags().String("record", "",
		"record map events into <path>.sqlite3 (env SEQMAP_RECORD)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"log every map event to stderr")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Functions registered with atexit, such as recorder flushes,
// run before the process exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

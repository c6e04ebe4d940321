package main

import (
	"fmt"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
)

var debug bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "joe-tasks",
		Short: "A minimal self-hosted task list",
		Long:  "Joe Tasks: add tasks, tick them off with one click, delete them.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogs(debug)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "dbg", false, "debug mode")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogs(dbg bool) {
	log.Setup(log.Msec)
	if dbg {
		log.Setup(log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
}

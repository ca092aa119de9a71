package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/errors"
)

var logLines int

var logCmd = &cobra.Command{
	Use:   "log <character>",
	Short: "Show recent battle log lines",
	Long:  `Show the most recent battle log lines kept by the redis or postgres battle log sink.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLines, "lines", "n", 20, "number of lines to show")
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if logLines <= 0 {
		return errors.InvalidOperationf("--lines must be positive, got %d", logLines)
	}
	id := args[0]
	switch a.cfg.BattleLog.Sink {
	case "redis":
		lines, err := a.redisLog.Recent(ctx, id, int64(logLines))
		if err != nil {
			return err
		}
		for _, line := range lines {
			fmt.Fprintln(os.Stdout, line)
		}
	case "postgres":
		entries, err := a.battleLog().Recent(ctx, id, logLines)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(os.Stdout, "%s  %s\n", e.CreatedAt.Local().Format("15:04:05"), e.Line)
		}
	default:
		return errors.InvalidOperationf("the %q battle log sink does not keep lines", a.cfg.BattleLog.Sink)
	}
	return nil
}

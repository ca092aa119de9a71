package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/spellbook/internal/frontend/telnet"
	"github.com/cory-johannsen/spellbook/internal/game/session"
	"github.com/cory-johannsen/spellbook/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve character sessions to the table over Telnet",
	Long: `Listen for Telnet connections. Each player picks a stored character and
drives it with the same commands as play. A character can be taken by one
connection at a time. Stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", -1, "override telnet.port")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg.Telnet
	if servePort >= 0 {
		cfg.Port = servePort
	}
	configure := func(id string, out io.Writer) session.Config {
		return a.sessionConfig(id, out, nil)
	}
	table := telnet.NewTable(session.NewManager(), a.store, configure, a.logger)

	lc := server.NewLifecycle(a.logger)
	lc.Add("telnet", telnet.NewAcceptor(cfg, table, a.logger))
	return lc.Run(cmd.Context())
}

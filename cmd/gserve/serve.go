//go:build linux || darwin

package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/legamerdc/gserve"
	"github.com/legamerdc/gserve/internal/config"
	"github.com/legamerdc/gserve/internal/echo"
	"github.com/legamerdc/gserve/internal/netutil"
)

var (
	cfgFile string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the line-echo server until the worker fails or the process is interrupted",
		RunE:  runServe,
	}
)

func init() {
	def := gserve.DefaultConfig()
	f := serveCmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	f.Uint16(config.FlagName(config.KeyPort), def.Port, "port to listen on (0 picks a free port)")
	f.Int(config.FlagName(config.KeyBacklog), def.Backlog, "listen backlog")
	f.Bool(config.FlagName(config.KeyReuseAddress), def.ReuseAddress, "set SO_REUSEADDR before bind")
	f.BoolP(config.FlagName(config.KeyVerbose), "v", def.Verbose, "enable debug logging")
	f.String(config.FlagName(config.KeyStrategy), gserve.StrategySelect.String(), "accept strategy: serial or select")
	f.Duration(config.FlagName(config.KeyTimeout), 0, "readiness wait timeout for the select strategy (0 blocks)")
	f.String(config.FlagName(config.KeyBackend), "select", "readiness backend: select, epoll (linux) or kqueue (darwin)")
	f.String(config.FlagName(config.KeyOnMultiplexFailure), gserve.FailProcess.String(),
		"scope of a select wait/accept failure: process or worker")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	st, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger := newLogger()

	lc, err := gserve.NewLifecycle(st.Strategy, append(st.LifecycleOptions(), gserve.WithLogger(logger))...)
	if err != nil {
		return err
	}
	defer lc.Destroy()

	fd, err := gserve.Socket()
	if err != nil {
		return errors.Wrap(err, "create listening socket")
	}
	defer netutil.Close(fd)

	h := echo.New(echo.Options{
		Drain:  st.Strategy == gserve.StrategySerial,
		Logger: logger,
	})
	w, err := gserve.Run(&st.Server, lc, fd, h, nil)
	if err != nil {
		return err
	}

	select {
	case <-w.Done():
		return w.Err()
	case <-cmd.Context().Done():
		logger.Info("interrupted", "state", w.State(), "lines", h.Lines())
		return nil
	}
}

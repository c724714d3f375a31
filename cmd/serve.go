package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/portsim/portsim/server"
)

const defaultAddr = "localhost:3000"

var (
	addr        string // Listen address
	openBrowser bool   // Open the API in a browser once listening
)

// resolveServeSettings fills the listen address and config path from the
// environment when the flags were not given. A .env file in the working
// directory, if present, is loaded first and never overrides real variables.
func resolveServeSettings(cmd *cobra.Command) (string, string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Ignoring .env: %v", err)
	}
	listen, path := addr, configPath
	if !cmd.Flags().Changed("addr") {
		if v := os.Getenv("PORTSIM_ADDR"); v != "" {
			listen = v
		}
	}
	if !cmd.Flags().Changed("config") {
		if v := os.Getenv("PORTSIM_CONFIG"); v != "" {
			path = v
		}
	}
	return listen, path
}

// serveCmd runs the simulation behind the HTTP API until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the port simulation over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, path := resolveServeSettings(cmd)
		cfg, err := loadSimConfig(path)
		if err != nil {
			return err
		}
		svc, err := server.NewService(cfg, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.ListenAndServe(ctx, listen, svc, func(a net.Addr) {
			url := fmt.Sprintf("http://%s/api/state", a.String())
			fmt.Fprintf(os.Stderr, "Port simulation served at http://%s\n", a.String())
			if openBrowser {
				if err := browser.OpenURL(url); err != nil {
					logrus.Warnf("Could not open browser: %v", err)
				}
			}
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", defaultAddr, "Listen address (env PORTSIM_ADDR)")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the state endpoint in a browser")

	rootCmd.AddCommand(serveCmd)
}

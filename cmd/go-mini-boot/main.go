package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaiNageswarS/go-mini-boot/config"
	"github.com/SaiNageswarS/go-mini-boot/example"
	"github.com/SaiNageswarS/go-mini-boot/logger"
	"github.com/SaiNageswarS/go-mini-boot/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// swapped in tests
var (
	serveFn    = Serve
	assembleFn = Assemble
)

type options struct {
	configPath  string
	scanRoot    string
	port        string
	metricsPort string
}

func NewRoot() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:          "go-mini-boot",
		Short:        "Run and inspect the go-mini-boot sample application",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "INI config file")
	rootCmd.PersistentFlags().StringVar(&opts.scanRoot, "scan-root", "", "namespace to scan for components")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serveFn(cmd.Context(), cfg)
		},
	}
	serveCmd.Flags().StringVar(&opts.port, "port", "", "listen address, e.g. :8080")
	serveCmd.Flags().StringVar(&opts.metricsPort, "metrics-port", "", "metrics listen address; empty disables it")

	routesCmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			rt, err := assembleFn(cfg)
			if err != nil {
				return err
			}
			PrintRoutes(cmd.OutOrStdout(), rt)
			return nil
		},
	}

	componentsCmd := &cobra.Command{
		Use:   "components",
		Short: "List scanned components and bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			rt, err := assembleFn(cfg)
			if err != nil {
				return err
			}
			PrintComponents(cmd.OutOrStdout(), rt)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, routesCmd, componentsCmd)
	return rootCmd
}

func loadConfig(cmd *cobra.Command, opts options) (config.BootConfig, error) {
	cfg := config.Default()
	if err := config.LoadConfig(opts.configPath, &cfg); err != nil {
		return cfg, err
	}

	if f := cmd.Flag("scan-root"); f != nil && f.Changed {
		cfg.ScanRoot = opts.scanRoot
	}
	if f := cmd.Flag("port"); f != nil && f.Changed {
		cfg.Port = opts.port
	}
	if f := cmd.Flag("metrics-port"); f != nil && f.Changed {
		cfg.MetricsPort = opts.metricsPort
	}
	return cfg, nil
}

// Serve builds the sample application and serves it until ctx is done.
func Serve(ctx context.Context, cfg config.BootConfig) error {
	srv, err := server.New().Config(cfg).Catalog(example.Catalog()).Build()
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Assemble wires the sample application without listening.
func Assemble(cfg config.BootConfig) (*server.Runtime, error) {
	return server.New().Config(cfg).Catalog(example.Catalog()).Assemble()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRoot().ExecuteContext(ctx); err != nil {
		logger.Fatal("go-mini-boot failed", zap.Error(err))
	}
}

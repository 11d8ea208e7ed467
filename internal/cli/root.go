// Package cli implements the svcerr command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/svcerr"
	"github.com/jmgilman/go/svcerr/config"
	"github.com/jmgilman/go/svcerr/i18n"
	"github.com/jmgilman/go/svcerr/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "svcerr",
	Short: "Classify service connection errors",
	Long: `svcerr classifies failures returned by OData and ABAP service calls,
renders the end-user message and resolves guided help for them.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

var (
	configPath  string
	envFile     string
	localeFlag  string
	verbose     bool
	showMetrics bool
)

// session holds what setup wires for a single invocation.
type session struct {
	cfg     config.Config
	handler *svcerr.Handler
	async   *telemetry.Async
	conn    *nats.Conn
	metrics *prometheus.Registry
}

var current *session

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with SVCERR_* variables")
	rootCmd.PersistentFlags().StringVarP(&localeFlag, "locale", "l", "", "Message language (BCP 47), overrides the configured locale")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log classification and telemetry at debug level")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print telemetry counters to stderr on exit")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if localeFlag != "" {
		cfg.Locale = localeFlag
	}

	logger := newLogger(cmd.ErrOrStderr())

	bundle, err := i18n.Default()
	if err != nil {
		return fmt.Errorf("failed to load message catalogs: %w", err)
	}

	s := &session{cfg: cfg, metrics: prometheus.NewRegistry()}
	sinks, err := s.sinks(logger)
	if err != nil {
		return err
	}
	s.async = telemetry.NewAsync(sinks,
		telemetry.WithBuffer(cfg.Telemetry.BufferSize),
		telemetry.WithAsyncLogger(logger),
	)

	s.handler = svcerr.New(
		svcerr.WithConfig(cfg),
		svcerr.WithTranslator(bundle.Localizer(cfg.Locale)),
		svcerr.WithSink(s.async),
		svcerr.WithLogger(logger),
	)
	current = s
	return nil
}

func (s *session) sinks(logger *slog.Logger) (telemetry.Multi, error) {
	if !s.cfg.Telemetry.Enabled {
		return nil, nil
	}

	prom, err := telemetry.NewPrometheusSink(s.metrics)
	if err != nil {
		return nil, err
	}
	sinks := telemetry.Multi{telemetry.NewSlogSink(logger, slog.LevelDebug), prom}

	if s.cfg.Telemetry.NATSURL != "" {
		natsSink, conn, err := telemetry.DialNATS(s.cfg.Telemetry.NATSURL, s.cfg.Telemetry.Subject)
		if err != nil {
			// Telemetry never fails a command.
			logger.Warn("telemetry disabled for NATS", "url", s.cfg.Telemetry.NATSURL, "error", err)
		} else {
			s.conn = conn
			sinks = append(sinks, natsSink)
		}
	}
	return sinks, nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	s := current
	if s == nil {
		return nil
	}
	current = nil

	s.async.Close()
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			s.conn.Close()
		}
	}
	if showMetrics {
		return printMetrics(cmd.ErrOrStderr(), s.metrics)
	}
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

func handler() *svcerr.Handler {
	if current == nil {
		return svcerr.New(svcerr.WithLogger(newLogger(os.Stderr)))
	}
	return current.handler
}

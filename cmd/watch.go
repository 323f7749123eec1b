package cmd

import (
	"context"

	"github.com/foomo/cdf/pkg/export"
	"github.com/foomo/cdf/pkg/handler"
	"github.com/foomo/cdf/responses"
	"github.com/foomo/keel"
	"github.com/foomo/keel/healthz"
	"github.com/foomo/keel/net/http/middleware"
	"github.com/foomo/keel/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewWatchCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "watch <source>",
		Short: "Poll a json tree source and export it on every change",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var comps []string
			if len(args) == 0 {
				comps = cobra.AppendActiveHelp(comps, "You must specify the path or URL of the tree source")
			} else {
				comps = cobra.AppendActiveHelp(comps, "This command does not take any more arguments")
			}
			return comps, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval := pollIntervalFlag(v); interval <= 0 {
				return errors.Errorf("--poll-interval must be positive, got %s", interval)
			}

			svr := keel.NewServer(
				keel.WithHTTPPrometheusService(servicePrometheusEnabledFlag(v)),
				keel.WithHTTPHealthzService(serviceHealthzEnabledFlag(v)),
				keel.WithPrometheusMeter(servicePrometheusEnabledFlag(v)),
				keel.WithGracefulPeriod(gracefulPeriodFlag(v)),
			)

			l := svr.Logger()

			exporter, loader, err := newExporter(cmd.Context(), v, l)
			if err != nil {
				return err
			}

			w := export.NewWatcher(l, args[0], exporter, loader,
				export.WatcherWithPollInterval(pollIntervalFlag(v)),
				export.WatcherWithOnExported(func(resp *responses.Export) {
					if resp.Success {
						l.Info("document updated", zap.String("document", resp.Document), zap.String("key", resp.Key))
					}
				}),
			)

			isLoadedHealtherFn := healthz.NewHealthzerFn(func(ctx context.Context) error {
				if !w.Loaded() {
					return errors.New("document not exported yet")
				}
				return nil
			})
			svr.AddStartupHealthzers(isLoadedHealtherFn)
			svr.AddReadinessHealthzers(isLoadedHealtherFn)

			svr.AddClosers(func(ctx context.Context) error {
				return exporter.Close()
			})

			svr.AddServices(
				service.NewGoRoutine(l.Named("go.watcher"), "watcher", func(ctx context.Context, l *zap.Logger) error {
					return w.Start(ctx)
				}),
				service.NewHTTP(l.Named("svc.http"), "http", addressFlag(v),
					handler.NewHTTP(l.Named("inst.handler"), w, handler.WithBasePath(basePathFlag(v))),
					middleware.Telemetry(),
					middleware.Logger(),
					middleware.GZip(middleware.GZipWithLevel(gzipLevelFlag(v))),
					middleware.Recover(),
				),
			)

			svr.Run()
			return nil
		},
	}

	flags := cmd.Flags()
	addExporterFlags(flags, v)
	addPollIntervalFlag(flags, v)
	addAddressFlag(flags, v)
	addBasePathFlag(flags, v)
	addGzipLevelFlag(flags, v)
	addGracefulPeriodFlag(flags, v)
	addServiceHealthzEnabledFlag(flags, v)
	addServicePrometheusEnabledFlag(flags, v)

	return cmd
}

package cmd

import (
	"context"

	"github.com/foomo/cdf/pkg/export"
	keelhttp "github.com/foomo/keel/net/http"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func NewConvertCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "convert <source>...",
		Short: "Export json tree sources as CDF XML documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L().Named("convert")

			exporter, _, err := newExporter(cmd.Context(), v, l)
			if err != nil {
				return err
			}
			defer func() {
				if err := exporter.Close(); err != nil {
					l.Warn("failed to close storage", zap.Error(err))
				}
			}()

			resps, exportErr := exporter.ExportAll(cmd.Context(), args...)
			enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(cmd.OutOrStdout())
			for _, resp := range resps {
				if err := enc.Encode(resp); err != nil {
					return errors.Wrap(err, "failed to print response")
				}
			}
			return exportErr
		},
	}

	addExporterFlags(cmd.Flags(), v)

	return cmd
}

func addExporterFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addModeFlag(flags, v)
	addIndentFlag(flags, v)
	addHistoryLimitFlag(flags, v)
	addConcurrencyFlag(flags, v)
	addSourceTimeoutFlag(flags, v)
	addOutputDirFlag(flags, v)
	addStorageTypeFlag(flags, v)
	addStorageBlobBucketFlag(flags, v)
	addStorageBlobPrefixFlag(flags, v)
}

// newExporter wires storage, loader and exporter from the exporter flags
func newExporter(ctx context.Context, v *viper.Viper, l *zap.Logger) (*export.Exporter, *export.Loader, error) {
	mode, err := export.ParseMode(modeFlag(v))
	if err != nil {
		return nil, nil, err
	}
	if limit := historyLimitFlag(v); limit < 0 {
		return nil, nil, errors.Errorf("--history-limit must not be negative, got %d", limit)
	}

	storage, err := createStorage(ctx, v, l)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create storage")
	}

	loader := export.NewLoader(l,
		export.LoaderWithHTTPClient(
			keelhttp.NewHTTPClient(
				keelhttp.HTTPClientWithTimeout(sourceTimeoutFlag(v)),
				keelhttp.HTTPClientWithTelemetry(),
			),
		),
	)

	return export.New(l, loader, storage,
		export.WithMode(mode),
		export.WithIndent(indentFlag(v)),
		export.WithHistoryLimit(historyLimitFlag(v)),
		export.WithConcurrency(concurrencyFlag(v)),
	), loader, nil
}

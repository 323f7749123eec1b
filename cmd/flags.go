package cmd

import (
	"compress/gzip"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func modeFlag(v *viper.Viper) string {
	return v.GetString("mode")
}

func addModeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("mode", "stream", "XML writer: stream or document")
	_ = v.BindPFlag("mode", flags.Lookup("mode"))
	_ = v.BindEnv("mode", "CDF_MODE")
}

func indentFlag(v *viper.Viper) int {
	return v.GetInt("indent")
}

func addIndentFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("indent", 0, "Spaces per indentation level, 0 writes compact XML")
	_ = v.BindPFlag("indent", flags.Lookup("indent"))
	_ = v.BindEnv("indent", "CDF_INDENT")
}

func outputDirFlag(v *viper.Viper) string {
	return v.GetString("output.dir")
}

func addOutputDirFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("output-dir", "/var/lib/cdf", "Where to put the documents when using filesystem storage")
	_ = v.BindPFlag("output.dir", flags.Lookup("output-dir"))
	_ = v.BindEnv("output.dir", "CDF_OUTPUT_DIR")
}

func historyLimitFlag(v *viper.Viper) int {
	return v.GetInt("history.limit")
}

func addHistoryLimitFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("history-limit", 2, "Number of backups to keep per document")
	_ = v.BindPFlag("history.limit", flags.Lookup("history-limit"))
	_ = v.BindEnv("history.limit", "CDF_HISTORY_LIMIT")
}

func concurrencyFlag(v *viper.Viper) int {
	return v.GetInt("concurrency")
}

func addConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("concurrency", 4, "Number of sources exported in parallel")
	_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = v.BindEnv("concurrency", "CDF_CONCURRENCY")
}

func sourceTimeoutFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("source.timeout")
}

func addSourceTimeoutFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("source-timeout", 30*time.Second, "Timeout for loading http sources")
	_ = v.BindPFlag("source.timeout", flags.Lookup("source-timeout"))
	_ = v.BindEnv("source.timeout", "CDF_SOURCE_TIMEOUT")
}

func pollIntervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("poll.interval")
}

func addPollIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("poll-interval", time.Minute, "Specifies the poll interval")
	_ = v.BindPFlag("poll.interval", flags.Lookup("poll-interval"))
	_ = v.BindEnv("poll.interval", "CDF_POLL_INTERVAL")
}

func addressFlag(v *viper.Viper) string {
	return v.GetString("address")
}

func addAddressFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("address", ":8080", "Address to bind to (host:port)")
	_ = v.BindPFlag("address", flags.Lookup("address"))
	_ = v.BindEnv("address", "CDF_ADDRESS")
}

func basePathFlag(v *viper.Viper) string {
	return v.GetString("base_path")
}

func addBasePathFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("base-path", "/cdf", "Base path to serve the document on")
	_ = v.BindPFlag("base_path", flags.Lookup("base-path"))
	_ = v.BindEnv("base_path", "CDF_BASE_PATH")
}

func gzipLevelFlag(v *viper.Viper) int {
	return v.GetInt("gzip.level")
}

func addGzipLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("gzip-level", gzip.DefaultCompression, "Compression level of http responses")
	_ = v.BindPFlag("gzip.level", flags.Lookup("gzip-level"))
	_ = v.BindEnv("gzip.level", "CDF_GZIP_LEVEL")
}

func storageTypeFlag(v *viper.Viper) string {
	return v.GetString("storage.type")
}

func addStorageTypeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("storage-type", "filesystem", "Storage backend: filesystem or blob")
	_ = v.BindPFlag("storage.type", flags.Lookup("storage-type"))
	_ = v.BindEnv("storage.type", "CDF_STORAGE_TYPE")
}

func storageBlobBucketFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.bucket")
}

func addStorageBlobBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("blob-bucket", "", "Bucket URL for blob storage (gs://, s3://, azblob://, file://)")
	_ = v.BindPFlag("storage.blob.bucket", flags.Lookup("blob-bucket"))
	_ = v.BindEnv("storage.blob.bucket", "CDF_BLOB_BUCKET")
}

func storageBlobPrefixFlag(v *viper.Viper) string {
	return v.GetString("storage.blob.prefix")
}

func addStorageBlobPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("blob-prefix", "", "Key prefix inside the bucket")
	_ = v.BindPFlag("storage.blob.prefix", flags.Lookup("blob-prefix"))
	_ = v.BindEnv("storage.blob.prefix", "CDF_BLOB_PREFIX")
}

func gracefulPeriodFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("graceful_period")
}

func addGracefulPeriodFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("graceful-period", 0, "Graceful period before shutting down")
	_ = v.BindPFlag("graceful_period", flags.Lookup("graceful-period"))
	_ = v.BindEnv("graceful_period", "CDF_GRACEFUL_PERIOD")
}

func serviceHealthzEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.healthz.enabled")
}

func addServiceHealthzEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-healthz-enabled", false, "Enable healthz service")
	_ = v.BindPFlag("service.healthz.enabled", flags.Lookup("service-healthz-enabled"))
	_ = v.BindEnv("service.healthz.enabled", "CDF_SERVICE_HEALTHZ_ENABLED")
}

func servicePrometheusEnabledFlag(v *viper.Viper) bool {
	return v.GetBool("service.prometheus.enabled")
}

func addServicePrometheusEnabledFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Bool("service-prometheus-enabled", false, "Enable prometheus service")
	_ = v.BindPFlag("service.prometheus.enabled", flags.Lookup("service-prometheus-enabled"))
	_ = v.BindEnv("service.prometheus.enabled", "CDF_SERVICE_PROMETHEUS_ENABLED")
}

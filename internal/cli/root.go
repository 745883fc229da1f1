package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/scirap/internal/catalog"
	"github.com/ppiankov/scirap/internal/model"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string

	configReadErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scirap",
	Short: "SciRAP in-vitro study evaluation (keyword based, non-normative)",
	Long: `scirap evaluates in-vitro toxicology study reports against the SciRAP
criteria for reporting quality, methodological quality and relevance.

Each criterion is decided by keyword matching over the normalized document
text. Verdicts are evidence of what the text mentions, not an expert
judgement of the study.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of scirap.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scirap v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.scirap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	viper.Reset()
	configReadErr = nil

	if err := setDefaults(model.DefaultConfig()); err != nil {
		configReadErr = err
		return
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".scirap"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SCIRAP_*, e.g. SCIRAP_HTTP_TIMEOUT
	viper.SetEnvPrefix("SCIRAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	case errors.As(err, new(viper.ConfigFileNotFoundError)) && cfgFile == "":
		// No config file is fine
	default:
		configReadErr = fmt.Errorf("read config: %w", err)
	}
}

// setDefaults registers every configuration key with viper so environment
// variables are honoured for keys the config file does not mention.
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	for _, key := range v.AllKeys() {
		viper.SetDefault(key, v.Get(key))
	}
	return nil
}

// loadConfig overlays config file and environment onto the defaults
func loadConfig() (*model.Config, error) {
	if configReadErr != nil {
		return nil, configReadErr
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// newLogger builds the structured logger: JSON by default, a console
// logger at debug level in verbose mode.
func newLogger(cfg model.LoggingConfig) (*zap.Logger, error) {
	var zc zap.Config
	if verbose || cfg.Console {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level := cfg.Level
	if verbose && logLevel == "" {
		level = "debug"
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zc.Level = lvl
	}

	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}

// loadCatalog returns the catalog at path, or the built-in one when path is empty
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Using catalog: %s (%d rules)\n", path, c.Len())
	}
	return c, nil
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nahguam/kafkacli/pkg/list"
)

const (
	envPrefix = "KAFKACLI"
)

// IOStreams are the standard streams a command reads from and writes to.
type IOStreams struct {
	In       io.Reader
	Out, Err io.Writer
}

// cli holds the state of one invocation.
type cli struct {
	streams IOStreams
	v       *viper.Viper

	cfgFile string
	verbose bool
	output  string
}

// NewRootCmd builds the command tree for one invocation.
func NewRootCmd(streams IOStreams) *cobra.Command {
	c := &cli{
		streams: streams,
		v:       viper.New(),
	}

	rootCmd := &cobra.Command{
		Use:   "kafkacli",
		Short: "Inspect Kafka topics and administer the schema registry.",
		Long: `Inspect Kafka topics and administer the schema registry.

kafkacli lists and describes topics, consumes messages and talks to a
Confluent compatible schema registry.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
		RunE: requireSubcommand,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetIn(streams.In)
	rootCmd.SetOut(streams.Out)
	rootCmd.SetErr(streams.Err)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "Path of config file")
	pf.BoolVar(&c.verbose, "verbose", false, "Verbose output")
	pf.StringVarP(&c.output, "output", "o", list.JSON, "Output format of topic commands (json, yaml or table)")
	pf.String("kafka-version", "", "Kafka protocol version, e.g. 2.8.0")
	pf.String("tls.key", "", "X509 key file in PEM encoding")
	pf.String("tls.cert", "", "X509 cert file in PEM encoding")
	pf.String("tls.caCert", "", "X509 Root CA file in PEM encoding")

	for _, key := range []string{"kafka-version", "tls.key", "tls.cert", "tls.caCert"} {
		_ = c.v.BindPFlag(key, pf.Lookup(key))
	}

	rootCmd.AddCommand(
		c.topicsCmd(),
		c.consumeCmd(),
		c.schemasCmd(),
	)

	return rootCmd
}

// Execute runs the command line of the process and exits with its code.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], IOStreams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}))
}

// Run executes args and returns the exit code: 0 on success, 1 when the
// operation failed and 2 when the command line could not be parsed.
func Run(args []string, streams IOStreams) int {
	rootCmd := NewRootCmd(streams)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintln(streams.Err, exit.err)
		}
		return exit.code
	}

	fmt.Fprintf(streams.Err, "Error: %s\n", err)
	fmt.Fprintf(streams.Err, "Run '%s --help' for usage.\n", rootCmd.Name())
	return 2
}

// initConfig reads in config file and ENV variables if set.
func (c *cli) initConfig() error {
	if !list.Valid(c.output) {
		return usageError{errors.Errorf("invalid output format %q", c.output)}
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	// if the config file is passed explicitly, it has to be readable
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return usageError{errors.Wrap(err, "can't read config")}
		}
		return nil
	}

	// otherwise the default locations are optional
	if home, err := os.UserHomeDir(); err == nil {
		c.v.AddConfigPath(home + "/.config/kafkacli")
	}
	c.v.AddConfigPath("/opt/kafkacli/etc")
	c.v.SetConfigName("config")

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return usageError{errors.Wrap(err, "can't read config")}
		}
	}

	return nil
}

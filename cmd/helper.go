package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/nahguam/kafkacli/pkg/franz"
	"github.com/nahguam/kafkacli/pkg/list"
)

// usageError marks a command line that could not be interpreted.
type usageError struct {
	error
}

func (e usageError) Unwrap() error { return e.error }

// exitError ends the process with code. err, if set, is printed to stderr.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// runE adapts fun to cobra: usage errors are passed on, every other error
// fails the operation with exit code 1.
func runE(fun func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fun(cmd, args)
		if err == nil {
			return nil
		}

		var usage usageError
		var exit *exitError
		if errors.As(err, &usage) || errors.As(err, &exit) {
			return err
		}

		return &exitError{code: 1, err: err}
	}
}

// requireSubcommand is the RunE of commands that only group subcommands.
// Reaching it means no known subcommand was named.
func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError{errors.Errorf("missing subcommand for %q", cmd.CommandPath())}
	}

	return usageError{errors.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
}

// bind connects the flags of cmd to their configuration keys. Several
// commands share keys, so binding happens when a command actually runs.
func (c *cli) bind(cmd *cobra.Command, keys ...string) {
	for _, key := range keys {
		_ = c.v.BindPFlag(key, cmd.Flags().Lookup(key))
	}
}

// required returns the configured value of key or a usage error.
func (c *cli) required(key string) (string, error) {
	value := cast.ToString(c.v.Get(key))
	if value == "" {
		return "", usageError{errors.Errorf("required flag \"--%s\" not set", key)}
	}

	return value, nil
}

func (c *cli) bootstrapServers() ([]string, error) {
	value, err := c.required("bootstrap-servers")
	if err != nil {
		return nil, err
	}

	var brokers []string
	for _, b := range strings.Split(value, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, usageError{errors.New("no bootstrap servers given")}
	}

	return brokers, nil
}

func (c *cli) tlsConfig() *franz.TLSConfig {
	certFile := c.v.GetString("tls.cert")
	keyFile := c.v.GetString("tls.key")
	caFile := c.v.GetString("tls.caCert")
	if certFile == "" && keyFile == "" && caFile == "" {
		return nil
	}

	return &franz.TLSConfig{
		CertFile: certFile,
		KeyFile:  keyFile,
		CaFile:   caFile,
	}
}

// registryTLS loads the TLS configuration for the schema registry, nil when
// none is configured.
func (c *cli) registryTLS() (*tls.Config, error) {
	t := c.tlsConfig()
	if t == nil {
		return nil, nil
	}

	return t.Load()
}

func (c *cli) getFranzConfig() (franz.Config, error) {
	brokers, err := c.bootstrapServers()
	if err != nil {
		return franz.Config{}, err
	}

	return franz.Config{
		KafkaVersion:   c.v.GetString("kafka-version"),
		Brokers:        brokers,
		SchemaRegistry: c.v.GetString("url"),
		TLSConfig:      c.tlsConfig(),
	}, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// execute does several things:
//  1. creates new franz instance
//  2. executes the passed in function
//  3. on success, prints the return value to stdout,
//     otherwise it just returns the error
func (c *cli) execute(fun func(ctx context.Context, f *franz.Franz) (string, error)) error {
	conf, err := c.getFranzConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	f, err := franz.New(conf, c.logger())
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := fun(ctx, f)
	if err != nil {
		return err
	}

	if out != "" {
		fmt.Fprintln(c.streams.Out, out)
	}

	return nil
}

// format renders entry in the selected output format. rows is the tabular
// form of entry, nil if entry is already a slice of structs.
func (c *cli) format(entry interface{}, rows interface{}) (string, error) {
	return list.Format(c.output, entry, rows)
}

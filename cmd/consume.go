package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/nahguam/kafkacli/pkg/franz"
	"github.com/nahguam/kafkacli/pkg/list"
)

const (
	defaultMessageCount = 25
)

func (c *cli) consumeCmd() *cobra.Command {
	var (
		topic      string
		partitions []int32
		count      int64
		start      string
		decode     bool
	)

	consumeCmd := &cobra.Command{
		Use:   "consume",
		Short: "Consume from Kafka",
		Long: `Consume from Kafka

Without --topic nothing is consumed. With --topic, the last n messages of
every partition (or all messages since --start) are printed as JSON, one per
line, oldest first within a partition.`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			c.bind(cmd, "bootstrap-servers", "url")

			if _, err := c.bootstrapServers(); err != nil {
				return err
			}

			if topic == "" {
				fmt.Fprintln(c.streams.Out, "consume")
				return nil
			}

			req := franz.ConsumeRequest{
				Topic:      topic,
				Partitions: partitions,
				Count:      count,
				Decode:     decode,
			}

			if start != "" {
				from, err := cast.StringToDate(start)
				if err != nil {
					return usageError{err}
				}
				req.From = from
			}

			if decode {
				if _, err := c.required("url"); err != nil {
					return err
				}
			}

			return c.execute(func(ctx context.Context, f *franz.Franz) (string, error) {
				return "", f.Consume(ctx, req, func(msg franz.Message) error {
					out, err := list.FormatJSON(msg)
					if err != nil {
						return err
					}

					fmt.Fprintln(c.streams.Out, out)
					return nil
				})
			})
		}),
	}

	consumeCmd.Flags().StringP("bootstrap-servers", "b", "", "Kafka bootstrap servers (comma-separated host:port)")
	consumeCmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic to consume")
	consumeCmd.Flags().Int32SliceVarP(&partitions, "partitions", "p", nil, "The partitions to consume (comma-separated), all partitions will be used if not set")
	consumeCmd.Flags().Int64VarP(&count, "number", "n", defaultMessageCount, "Consumes the n last messages for each partition")
	consumeCmd.Flags().StringVarP(&start, "start", "s", "", "Starting time, overrides -n")
	consumeCmd.Flags().BoolVar(&decode, "decode", false, "Decodes the message according to the schema defined in the schema registry")
	consumeCmd.Flags().StringP("url", "u", "", "Schema Registry URL, needed by --decode")

	return consumeCmd
}


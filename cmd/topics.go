package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nahguam/kafkacli/pkg/franz"
)

type topicRow struct {
	Topic string
}

func (c *cli) topicsCmd() *cobra.Command {
	var topic string

	topicsCmd := &cobra.Command{
		Use:   "topics",
		Short: "Inspect topics",
		RunE:  requireSubcommand,
	}

	listTopicsCmd := &cobra.Command{
		Use:   "list",
		Short: "List Kafka topics",
		Long: `List Kafka topics

Topics are printed in the order the broker returns them, internal topics
included.`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			c.bind(cmd, "bootstrap-servers")

			return c.execute(func(_ context.Context, f *franz.Franz) (string, error) {
				topics, err := f.ListTopics()
				if err != nil {
					return "", err
				}

				rows := make([]topicRow, 0, len(topics))
				for _, t := range topics {
					rows = append(rows, topicRow{Topic: t})
				}

				return c.format(topics, rows)
			})
		}),
	}

	describeTopicCmd := &cobra.Command{
		Use:   "describe",
		Short: "Describe the partitions of a topic",
		Long: `Describe the partitions of a topic

Prints every partition with its leader. Fails if a partition has no leader.`,
		Args: cobra.NoArgs,
		RunE: runE(func(cmd *cobra.Command, args []string) error {
			c.bind(cmd, "bootstrap-servers")

			return c.execute(func(_ context.Context, f *franz.Franz) (string, error) {
				view, err := f.DescribeTopic(topic)
				if err != nil {
					return "", err
				}

				return c.format(view, view.Rows())
			})
		}),
	}

	for _, cmd := range []*cobra.Command{listTopicsCmd, describeTopicCmd} {
		cmd.Flags().StringP("bootstrap-servers", "b", "", "Kafka bootstrap servers (comma-separated host:port)")
	}
	describeTopicCmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic")
	_ = describeTopicCmd.MarkFlagRequired("topic")

	topicsCmd.AddCommand(listTopicsCmd, describeTopicCmd)

	return topicsCmd
}

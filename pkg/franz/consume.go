package franz

import (
	"context"
	"sort"
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
)

// idleTimeout is how long a partition may stay silent before the offsets still
// missing below the high-water mark are assumed undeliverable.
const idleTimeout = 5 * time.Second

type ConsumeRequest struct {
	Topic      string
	Partitions []int32
	Count      int64
	From       time.Time // takes precedence over Count
	Decode     bool
}

// Consume reads the requested messages partition by partition, stopping at
// the high-water mark observed when the partition is started. Every message
// is passed to handle in offset order.
func (f *Franz) Consume(ctx context.Context, req ConsumeRequest, handle func(Message) error) error {
	if req.From.IsZero() && req.Count <= 0 {
		return errors.New("desired message count needs to be larger than 0")
	}

	partitions := req.Partitions
	if len(partitions) == 0 {
		p, err := f.client.Partitions(req.Topic)
		if err != nil {
			return errors.Wrapf(err, "cannot list partitions of %s", req.Topic)
		}

		partitions = p
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i] < partitions[j]
	})

	consumer, err := sarama.NewConsumerFromClient(f.client)
	if err != nil {
		return err
	}
	defer consumer.Close()

	for _, partition := range partitions {
		err := f.consumePartition(ctx, consumer, req, partition, handle)
		if errors.Is(err, ErrNoMessages) {
			f.log.Warnf("no messages available on partition %d", partition)
			continue
		} else if err != nil {
			return err
		}
	}

	return nil
}

func (f *Franz) consumePartition(ctx context.Context, consumer sarama.Consumer, req ConsumeRequest, partition int32, handle func(Message) error) error {
	start, end, err := f.offsets(req, partition)
	if err != nil {
		return err
	}

	f.log.Infof("starting consumer for partition %d at offset %d", partition, start)

	pc, err := consumer.ConsumePartition(req.Topic, partition, start)
	if err != nil {
		return errors.Wrapf(err, "cannot consume partition %d", partition)
	}
	defer pc.Close()

	return f.drainPartition(ctx, pc, end, req.Decode, handle)
}

// drainPartition hands messages to handle until the one just below end has
// been seen. Offsets below end that never arrive (transaction markers or a
// compacted tail) are covered by stopping after f.idle without a message.
func (f *Franz) drainPartition(ctx context.Context, pc sarama.PartitionConsumer, end int64, decode bool, handle func(Message) error) error {
	idle := time.NewTimer(f.idle)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-idle.C:
			f.log.Warnf("no message received for %s, stopping before offset %d", f.idle, end)
			return nil

		case err, ok := <-pc.Errors():
			if !ok {
				return nil
			}
			return err

		case message, ok := <-pc.Messages():
			if !ok {
				return nil
			}

			msg := Message{
				Topic:     message.Topic,
				Timestamp: message.Timestamp,
				Partition: message.Partition,
				Key:       string(message.Key),
				Value:     string(message.Value),
				Offset:    message.Offset,
			}

			if decode {
				decoded, err := f.codec.Decode(message.Value)
				if err != nil {
					return err
				}

				msg.Value = string(decoded)
			}

			if err := handle(msg); err != nil {
				return err
			}

			if msg.Offset >= end-1 {
				return nil
			}

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(f.idle)
		}
	}
}

// offsets returns the first offset to read and the high-water mark of the
// partition.
func (f *Franz) offsets(req ConsumeRequest, partition int32) (start, end int64, err error) {
	newest, err := f.client.GetOffset(req.Topic, partition, sarama.OffsetNewest)
	if err != nil {
		return 0, 0, err
	}

	oldest, err := f.client.GetOffset(req.Topic, partition, sarama.OffsetOldest)
	if err != nil {
		return 0, 0, err
	}

	if oldest == newest {
		return 0, 0, ErrNoMessages
	}

	if !req.From.IsZero() {
		start, err = f.client.GetOffset(req.Topic, partition, req.From.UnixMilli())
		if err != nil {
			return 0, 0, err
		}

		// nothing was written after From
		if start == sarama.OffsetNewest || start >= newest {
			return 0, 0, ErrNoMessages
		}

		return start, newest, nil
	}

	return startOffset(oldest, newest, req.Count), newest, nil
}

// startOffset returns the offset of the count-th last message, bounded by the
// oldest retained offset.
func startOffset(oldest, newest, count int64) int64 {
	start := newest - count
	if start < oldest {
		return oldest
	}

	return start
}

package franz

import (
	"sort"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
)

// TopicView is the JSON representation of a described topic.
type TopicView struct {
	Name       string          `json:"name" yaml:"name"`
	Partitions []PartitionView `json:"partitions" yaml:"partitions"`
}

type PartitionView struct {
	ID          int32      `json:"id" yaml:"id"`
	IsAvailable bool       `json:"is_available" yaml:"is_available"`
	Leader      BrokerView `json:"leader" yaml:"leader"`
}

type BrokerView struct {
	ID   int32  `json:"id" yaml:"id"`
	Host string `json:"host" yaml:"host"`
}

// PartitionRow flattens a partition for table output.
type PartitionRow struct {
	Partition int32
	Available bool
	Leader    int32
	Host      string
}

func (t TopicView) Rows() []PartitionRow {
	rows := make([]PartitionRow, 0, len(t.Partitions))
	for _, p := range t.Partitions {
		rows = append(rows, PartitionRow{
			Partition: p.ID,
			Available: p.IsAvailable,
			Leader:    p.Leader.ID,
			Host:      p.Leader.Host,
		})
	}

	return rows
}

type metadataSource interface {
	GetMetadata(*sarama.MetadataRequest) (*sarama.MetadataResponse, error)
}

// ListTopics returns the names of all topics in the order the broker
// reports them.
func (f *Franz) ListTopics() ([]string, error) {
	broker, err := f.anyBroker()
	if err != nil {
		return nil, err
	}

	f.log.Info("retrieving topics")
	return listTopics(broker)
}

// DescribeTopic returns the partitions of topic together with their leaders.
func (f *Franz) DescribeTopic(topic string) (TopicView, error) {
	broker, err := f.anyBroker()
	if err != nil {
		return TopicView{}, err
	}

	f.log.Infof("describing topic %s", topic)
	return describeTopic(broker, topic)
}

func listTopics(src metadataSource) ([]string, error) {
	md, err := src.GetMetadata(&sarama.MetadataRequest{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load metadata")
	}

	names := make([]string, 0, len(md.Topics))
	for _, t := range md.Topics {
		names = append(names, t.Name)
	}

	return names, nil
}

func describeTopic(src metadataSource, topic string) (TopicView, error) {
	md, err := src.GetMetadata(&sarama.MetadataRequest{Topics: []string{topic}})
	if err != nil {
		return TopicView{}, errors.Wrapf(err, "failed to load metadata for topic %s", topic)
	}

	var tm *sarama.TopicMetadata
	for _, t := range md.Topics {
		if t.Name == topic {
			tm = t
			break
		}
	}
	if tm == nil {
		return TopicView{}, errors.Wrap(ErrUnknownTopic, topic)
	}
	if tm.Err != sarama.ErrNoError {
		return TopicView{}, errors.Wrapf(tm.Err, "failed to load metadata for topic %s", topic)
	}

	brokers := make(map[int32]*sarama.Broker, len(md.Brokers))
	for _, b := range md.Brokers {
		brokers[b.ID()] = b
	}

	partitions := make([]PartitionView, 0, len(tm.Partitions))
	for _, p := range tm.Partitions {
		leader, ok := brokers[p.Leader]
		if !ok {
			return TopicView{}, errors.Wrapf(ErrNoLeader, "topic %s partition %d", topic, p.ID)
		}

		// a partition is available once its leader is known
		partitions = append(partitions, PartitionView{
			ID:          p.ID,
			IsAvailable: true,
			Leader: BrokerView{
				ID:   leader.ID(),
				Host: leader.Addr(),
			},
		})
	}

	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].ID < partitions[j].ID
	})

	return TopicView{Name: topic, Partitions: partitions}, nil
}

// anyBroker returns the first broker of the cluster that accepts a
// connection.
func (f *Franz) anyBroker() (*sarama.Broker, error) {
	var lastErr error
	for _, broker := range f.client.Brokers() {
		if err := connect(broker, f.client.Config()); err != nil {
			f.log.Warnf("cannot connect to broker %s: %s", broker.Addr(), err)
			lastErr = err
			continue
		}

		f.log.Debugf("using broker %s", broker.Addr())
		return broker, nil
	}

	if lastErr != nil {
		return nil, errors.Wrap(lastErr, "no reachable broker")
	}

	return nil, ErrNoBrokers
}

func connect(broker *sarama.Broker, cfg *sarama.Config) error {
	if ok, _ := broker.Connected(); ok {
		return nil
	}

	if err := broker.Open(cfg); err != nil && err != sarama.ErrAlreadyConnected {
		return err
	}

	connected, err := broker.Connected()
	if err != nil {
		return err
	} else if !connected {
		return errors.New("unknown failure")
	}

	return nil
}

package franz

import (
	"time"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	KafkaVersion   string
	Brokers        []string
	SchemaRegistry string
	*TLSConfig
}

type TLSConfig struct {
	CertFile, KeyFile, CaFile string
}

type Message struct {
	Topic      string
	Timestamp  time.Time
	Partition  int32
	Key, Value string
	Offset     int64
}

type Franz struct {
	client   sarama.Client
	log      logrus.FieldLogger
	registry Registry
	codec    *avroCodec
	idle     time.Duration
}

func New(c Config, log logrus.FieldLogger) (*Franz, error) {
	sc, err := parseConfig(c)
	if err != nil {
		return nil, err
	}

	if len(c.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	log.Debugf("connecting to %v", c.Brokers)
	client, err := sarama.NewClient(c.Brokers, sc)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to kafka")
	}

	registry := Registry(nilRegistry{})
	if c.SchemaRegistry != "" {
		registry, err = newRegistry(c, log)
		if err != nil {
			client.Close()
			return nil, err
		}
	}

	return &Franz{
		log:      log,
		client:   client,
		registry: registry,
		codec:    newAvroCodec(registry),
		idle:     idleTimeout,
	}, nil
}

func (f *Franz) Close() error {
	err := f.client.Close()
	f.client = nil

	return err
}

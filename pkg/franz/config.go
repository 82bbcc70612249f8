package franz

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/Shopify/sarama"
	"github.com/pkg/errors"
)

func parseConfig(c Config) (*sarama.Config, error) {
	sc := sarama.NewConfig()

	sc.Version = sarama.V1_0_0_0
	if c.KafkaVersion != "" {
		v, err := sarama.ParseKafkaVersion(c.KafkaVersion)
		if err != nil {
			return nil, errors.Wrap(err, "invalid kafka version")
		}

		sc.Version = v
	}

	sc.Consumer.Return.Errors = true
	// ClientID keeps sarama's default, validation rejects an empty one

	if c.TLSConfig != nil {
		tlsConfig, err := c.TLSConfig.Load()
		if err != nil {
			return nil, err
		}

		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = tlsConfig
	}

	return sc, nil
}

// Load builds the TLS configuration shared by the broker and registry clients.
func (c TLSConfig) Load() (*tls.Config, error) {
	// Load client cert
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load client certificate")
	}

	// Load CA cert
	caCert, err := os.ReadFile(c.CaFile)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read CA certificate")
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, errors.Errorf("no certificates found in %s", c.CaFile)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
	}, nil
}

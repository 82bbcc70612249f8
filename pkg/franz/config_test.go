package franz

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	sc, err := parseConfig(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	assert.Equal(t, sarama.V1_0_0_0, sc.Version)
	assert.True(t, sc.Consumer.Return.Errors)
	assert.False(t, sc.Net.TLS.Enable)
	// sarama rejects an empty client id, so its own default stays
	assert.Equal(t, "sarama", sc.ClientID)
	assert.NoError(t, sc.Validate())
}

func TestParseConfigKafkaVersion(t *testing.T) {
	sc, err := parseConfig(Config{KafkaVersion: "2.8.0"})
	require.NoError(t, err)
	assert.Equal(t, sarama.V2_8_0_0, sc.Version)

	_, err = parseConfig(Config{KafkaVersion: "not-a-version"})
	require.ErrorContains(t, err, "invalid kafka version")
}

func TestParseConfigMissingCertificates(t *testing.T) {
	_, err := parseConfig(Config{TLSConfig: &TLSConfig{
		CertFile: "testdata/missing.crt",
		KeyFile:  "testdata/missing.key",
		CaFile:   "testdata/missing.pem",
	}})
	require.ErrorContains(t, err, "cannot load client certificate")
}

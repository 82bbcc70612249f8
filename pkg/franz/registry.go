package franz

import (
	"net/http"

	schemaregistry "github.com/landoop/schema-registry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Registry resolves the schemas referenced by registry-framed messages.
type Registry interface {
	SchemaByID(uint32) (string, error)
}

type nilRegistry struct{}

func (n nilRegistry) SchemaByID(uint32) (string, error) { return "", ErrNoRegistry }

type defaultRegistry struct {
	client *schemaregistry.Client
	log    logrus.FieldLogger
}

func newRegistry(config Config, log logrus.FieldLogger) (*defaultRegistry, error) {
	client := http.Client{}
	if config.TLSConfig != nil {
		config, err := config.TLSConfig.Load()
		if err != nil {
			return nil, err
		}

		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: config,
		}
	}

	c, err := schemaregistry.NewClient(config.SchemaRegistry, schemaregistry.UsingClient(&client))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create registry client")
	}

	return &defaultRegistry{
		client: c,
		log:    log,
	}, nil
}

// SchemaByID fetches the schema on every call; results are not kept.
func (r *defaultRegistry) SchemaByID(id uint32) (string, error) {
	schema, err := r.client.GetSchemaByID(int(id))
	if err != nil {
		return "", errors.Wrapf(err, "cannot retrieve schema %d", id)
	}

	r.log.Debugf("retrieved schema with ID %d", id)

	return schema, nil
}

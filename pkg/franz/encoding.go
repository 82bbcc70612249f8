package franz

import (
	"encoding/binary"

	"github.com/linkedin/goavro/v2"
	"github.com/pkg/errors"
)

const (
	magicByte  = 0
	headerSize = 5
)

// avroCodec decodes data framed as defined here:
// https://docs.confluent.io/current/schema-registry/serializer-formatter.html#wire-format
type avroCodec struct {
	registry Registry
}

func newAvroCodec(r Registry) *avroCodec {
	return &avroCodec{registry: r}
}

// Decode reads the schema ID from the 5 byte header, fetches the schema and
// returns the remaining payload as Avro JSON.
func (d *avroCodec) Decode(msg []byte) ([]byte, error) {
	if len(msg) < headerSize || msg[0] != magicByte {
		return nil, errors.New("message is not framed with a schema ID")
	}

	schemaID := binary.BigEndian.Uint32(msg[1:headerSize])
	schema, err := d.registry.SchemaByID(schemaID)
	if err != nil {
		return nil, err
	}

	c, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schema %d", schemaID)
	}

	out, _, err := c.NativeFromBinary(msg[headerSize:])
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode message with schema %d", schemaID)
	}

	return c.TextualFromNative(nil, out)
}

package registry

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Dispatcher turns a Request into exactly one registry call.
type Dispatcher struct {
	client *Client
	stdin  io.Reader
	diag   io.Writer
	log    logrus.FieldLogger
}

// NewDispatcher returns a dispatcher reading piped bodies from stdin and
// writing the stdin marker to diag.
func NewDispatcher(client *Client, stdin io.Reader, diag io.Writer, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		client: client,
		stdin:  stdin,
		diag:   diag,
		log:    log,
	}
}

// Dispatch resolves the request, collects the body if one is needed and
// performs the call.
func (d *Dispatcher) Dispatch(ctx context.Context, r Request) (Outcome, error) {
	op, err := Resolve(r)
	if err != nil {
		return Outcome{}, err
	}

	d.log.WithField("operation", op.Kind).Debug("resolved schemas request")

	ep, err := op.Endpoint(r.URL)
	if err != nil {
		return Outcome{}, err
	}

	body, err := d.body(op)
	if err != nil {
		return Outcome{}, err
	}

	return d.client.Do(ctx, ep, body)
}

func (d *Dispatcher) body(op Operation) (*string, error) {
	if !op.HasBody() {
		return nil, nil
	}

	body := op.Body
	if op.FromStdin {
		in, err := ReadPipedStdin(d.stdin, d.diag)
		if err != nil {
			return nil, err
		}
		body = in
	}

	if op.Wrap {
		wrapped, err := envelope(body, !op.FromStdin)
		if err != nil {
			return nil, err
		}
		body = wrapped
	}

	return &body, nil
}

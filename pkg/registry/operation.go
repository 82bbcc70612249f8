package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies one schema registry operation.
type Kind int

const (
	ListSubjects Kind = iota + 1
	GetSubject
	GetVersion
	DeleteVersion
	DeleteSubject
	CheckSubject
	CheckVersion
	RegisterVersion
)

func (k Kind) String() string {
	switch k {
	case ListSubjects:
		return "ListSubjects"
	case GetSubject:
		return "GetSubject"
	case GetVersion:
		return "GetVersion"
	case DeleteVersion:
		return "DeleteVersion"
	case DeleteSubject:
		return "DeleteSubject"
	case CheckSubject:
		return "CheckSubject"
	case CheckVersion:
		return "CheckVersion"
	case RegisterVersion:
		return "RegisterVersion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Operation is a resolved schemas invocation. Only the fields relevant to
// Kind are set.
type Operation struct {
	Kind       Kind
	Subject    string
	Version    uint32
	SchemaOnly bool

	// Body is the positional escaped schema. FromStdin is set instead when
	// the body has to be read from piped input.
	Body      string
	FromStdin bool
	Wrap      bool

	Deleted   bool
	Permanent bool
}

// Endpoint is the HTTP method and absolute URL of a registry call.
type Endpoint struct {
	Method string
	URL    string
}

// HasBody reports whether the operation sends a request body.
func (o Operation) HasBody() bool {
	switch o.Kind {
	case CheckSubject, CheckVersion, RegisterVersion:
		return true
	default:
		return false
	}
}

// Endpoint builds the registry endpoint for the operation below baseURL.
func (o Operation) Endpoint(baseURL string) (Endpoint, error) {
	base := strings.TrimSuffix(baseURL, "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return Endpoint{}, errors.Wrapf(err, "invalid registry url %q", baseURL)
	}

	subject := url.PathEscape(o.Subject)

	var (
		method = http.MethodGet
		path   string
		query  url.Values
	)

	switch o.Kind {
	case ListSubjects:
		path = "/subjects"
		if o.Deleted {
			query = url.Values{"deleted": {"true"}}
		}
	case GetSubject:
		path = fmt.Sprintf("/subjects/%s/versions", subject)
	case GetVersion:
		path = fmt.Sprintf("/subjects/%s/versions/%d", subject, o.Version)
		if o.SchemaOnly {
			path += "/schema"
		}
	case DeleteVersion:
		method = http.MethodDelete
		path = fmt.Sprintf("/subjects/%s/versions/%d", subject, o.Version)
	case DeleteSubject:
		method = http.MethodDelete
		path = fmt.Sprintf("/subjects/%s", subject)
	case CheckVersion:
		method = http.MethodPost
		path = fmt.Sprintf("/compatibility/subjects/%s/versions/%d", subject, o.Version)
	case CheckSubject:
		method = http.MethodPost
		path = fmt.Sprintf("/subjects/%s", subject)
	case RegisterVersion:
		method = http.MethodPost
		path = fmt.Sprintf("/subjects/%s/versions", subject)
	default:
		return Endpoint{}, errors.Errorf("unsupported operation %s", o.Kind)
	}

	if o.Permanent {
		query = url.Values{"permanent": {"true"}}
	}

	u := base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return Endpoint{Method: method, URL: u}, nil
}

// envelope wraps a schema into the registry's request document. An escaped
// schema is already a valid JSON string body and is embedded as is; a raw one
// is escaped first.
func envelope(schema string, escaped bool) (string, error) {
	if escaped {
		return `{"schema":"` + schema + `"}`, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(struct {
		Schema string `json:"schema"`
	}{Schema: schema}); err != nil {
		return "", errors.Wrap(err, "cannot wrap schema")
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

package registry

// Request is the set of flags given to the schemas command.
type Request struct {
	URL string

	List     bool
	Subject  *string
	Version  *uint32
	Delete   bool
	Schema   bool
	Register bool
	Check    bool

	// EscapedSchema is the positional body. It is passed on untouched.
	EscapedSchema *string

	// modifiers, only accepted by the operations that use them
	Deleted   bool
	Permanent bool
	Wrap      bool
}

type match uint8

const (
	no match = iota
	yes
	either
)

func (m match) accepts(v bool) bool {
	switch m {
	case yes:
		return v
	case no:
		return !v
	default:
		return true
	}
}

type modifier uint8

const (
	modDeleted modifier = 1 << iota
	modPermanent
	modWrap
)

// pattern lists one accepted combination of the request flags.
type pattern struct {
	list, subject, version, delete, schema, register, check, body match
}

type rule struct {
	pattern
	modifiers modifier
	build     func(r Request) Operation
}

// rules is the complete table of accepted flag combinations. The patterns
// are pairwise disjoint, so at most one of them matches a request.
var rules = []rule{
	{
		pattern:   pattern{list: yes},
		modifiers: modDeleted,
		build: func(r Request) Operation {
			return Operation{Kind: ListSubjects, Deleted: r.Deleted}
		},
	},
	{
		pattern: pattern{subject: yes},
		build: func(r Request) Operation {
			return Operation{Kind: GetSubject, Subject: *r.Subject}
		},
	},
	{
		pattern: pattern{subject: yes, version: yes, schema: either},
		build: func(r Request) Operation {
			return Operation{Kind: GetVersion, Subject: *r.Subject, Version: *r.Version, SchemaOnly: r.Schema}
		},
	},
	{
		pattern:   pattern{subject: yes, version: yes, delete: yes},
		modifiers: modPermanent,
		build: func(r Request) Operation {
			return Operation{Kind: DeleteVersion, Subject: *r.Subject, Version: *r.Version, Permanent: r.Permanent}
		},
	},
	{
		pattern:   pattern{subject: yes, version: yes, check: yes, body: either},
		modifiers: modWrap,
		build: func(r Request) Operation {
			return withBody(Operation{Kind: CheckVersion, Subject: *r.Subject, Version: *r.Version}, r)
		},
	},
	{
		pattern:   pattern{subject: yes, delete: yes},
		modifiers: modPermanent,
		build: func(r Request) Operation {
			return Operation{Kind: DeleteSubject, Subject: *r.Subject, Permanent: r.Permanent}
		},
	},
	{
		pattern:   pattern{subject: yes, check: yes, body: either},
		modifiers: modWrap,
		build: func(r Request) Operation {
			return withBody(Operation{Kind: CheckSubject, Subject: *r.Subject}, r)
		},
	},
	{
		pattern:   pattern{subject: yes, register: yes, body: either},
		modifiers: modWrap,
		build: func(r Request) Operation {
			return withBody(Operation{Kind: RegisterVersion, Subject: *r.Subject}, r)
		},
	},
}

func withBody(op Operation, r Request) Operation {
	op.Wrap = r.Wrap
	if r.EscapedSchema != nil {
		op.Body = *r.EscapedSchema
		return op
	}

	op.FromStdin = true
	return op
}

func (p pattern) matches(r Request) bool {
	return p.list.accepts(r.List) &&
		p.subject.accepts(r.Subject != nil) &&
		p.version.accepts(r.Version != nil) &&
		p.delete.accepts(r.Delete) &&
		p.schema.accepts(r.Schema) &&
		p.register.accepts(r.Register) &&
		p.check.accepts(r.Check) &&
		p.body.accepts(r.EscapedSchema != nil)
}

func (r Request) modifiers() modifier {
	var m modifier
	if r.Deleted {
		m |= modDeleted
	}
	if r.Permanent {
		m |= modPermanent
	}
	if r.Wrap {
		m |= modWrap
	}
	return m
}

// Resolve maps the request onto the single operation its flags describe.
// Any combination outside the rule table yields ErrUnknownCombination.
func Resolve(r Request) (Operation, error) {
	for _, rule := range rules {
		if !rule.matches(r) {
			continue
		}
		if r.modifiers()&^rule.modifiers != 0 {
			return Operation{}, ErrUnknownCombination
		}

		return rule.build(r), nil
	}

	return Operation{}, ErrUnknownCombination
}

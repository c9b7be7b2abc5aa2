package cv

// RawKind tells what shape raw contact value had in the source document.
type RawKind int

const (
	RawInvalid RawKind = iota
	RawString
	RawObject
)

// RawContact is an unnormalized contact value. Only string fields of an object
// form are kept, anything else is left empty and dealt with by the normalizer.
type RawContact struct {
	Kind RawKind

	// RawString
	Text string

	// RawObject
	Value   string
	Display string
	Href    string
	Icon    string
	Label   string
	NewTab  *bool
}

func ContactString(s string) RawContact {
	return RawContact{Kind: RawString, Text: s}
}

// ContactField is a single key of the contact mapping.
type ContactField struct {
	Key   string
	Value RawContact
}

// Contact is an ordered contact mapping. Keys are unique: adding a key which
// already exists replaces its value but keeps original position.
type Contact struct {
	keys   []string
	values map[string]RawContact
}

func NewContact(fields ...ContactField) Contact {
	var c Contact
	for _, f := range fields {
		c.set(f.Key, f.Value)
	}
	return c
}

func (c *Contact) set(key string, v RawContact) {
	if c.values == nil {
		c.values = make(map[string]RawContact)
	}
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = v
}

// Keys returns keys in encounter order.
func (c Contact) Keys() []string {
	return append([]string(nil), c.keys...)
}

func (c Contact) Get(key string) (RawContact, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c Contact) Len() int {
	return len(c.keys)
}

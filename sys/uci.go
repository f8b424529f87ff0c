package sys

import "github.com/digineo/go-uci/v2"

// UciSection is one "config" block of an OpenWrt UCI package. Anonymous
// sections carry their "@type[index]" selector as Name.
type UciSection struct {
	Type    string
	Name    string
	Options map[string]string
}

// Get returns the first value of an option or list.
func (s UciSection) Get(key string) (string, bool) {
	v, ok := s.Options[key]
	return v, ok
}

// LoadUci reads the sections of type typ from the package called name below
// root, keeping the first value of each of keys. The package is read afresh on
// every call.
func LoadUci(root, name, typ string, keys ...string) ([]UciSection, error) {
	tree := uci.NewTree(root)
	names, err := tree.GetSections(name, typ)
	if err != nil {
		return nil, err
	}
	sections := make([]UciSection, 0, len(names))
	for _, sec := range names {
		s := UciSection{Type: typ, Name: sec, Options: make(map[string]string, len(keys))}
		for _, k := range keys {
			if v, ok := tree.Get(name, sec, k); ok && len(v) > 0 {
				s.Options[k] = v[0]
			}
		}
		sections = append(sections, s)
	}
	return sections, nil
}

package svgicon

import (
	"io"
	"sort"

	"github.com/cockroachdb/errors"
)

// Check verifies the references of the icon: every gradient and
// filter id is declared once, and every url(#id) resolves.
func (s *SvgIcon) Check() error {
	ids := make([]string, 0, len(s.declared))
	for id := range s.declared {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if n := s.declared[id]; n > 1 {
			return malformed(errors.Newf("id %q declared %d times", id, n))
		}
	}
	for _, ref := range s.refs {
		if _, ok := s.declared[ref]; ok {
			continue
		}
		if _, ok := s.defs[ref]; ok {
			continue
		}
		return malformed(errors.Newf("reference to undeclared id %q", ref))
	}
	return nil
}

// Check parses the SVG document of `stream`, failing on any unsupported
// element, and verifies its references.
func Check(stream io.Reader) (*SvgIcon, error) {
	icon, err := ReadIconStream(stream, StrictErrorMode)
	if err != nil {
		return nil, err
	}
	if err := icon.Check(); err != nil {
		return nil, err
	}
	return icon, nil
}

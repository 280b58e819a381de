// Package fonts locates a TrueType face for the badge glyph.
//
// The lookup walks the platform font directories for the families of
// Families, in order, and falls back to the Go Bold face compiled into
// the binary. Only .ttf and .otf files are considered: font collections
// (.ttc) are not supported by golang.org/x/image.
package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/openyolo/assetgen/internal/apperr"
)

// Families is the ordered list of font families tried by Lookup.
var Families = []string{
	"Arial",
	"Arial Unicode MS",
	"DejaVu Sans",
	"Liberation Sans",
	"Nimbus Sans",
	"FreeSans",
	"Droid Sans",
	"Roboto",
	"Ubuntu",
}

// BuiltinName is the name reported by the embedded fallback.
const BuiltinName = "Go Bold (builtin)"

// Source provides faces of one parsed font, at any size.
type Source struct {
	name string
	path string // empty for the builtin font
	font *opentype.Font
}

var (
	builtinOnce sync.Once
	builtin     *Source
)

// Builtin returns the font embedded in the binary. Its output
// does not depend on the host, which makes it the choice for tests.
func Builtin() *Source {
	builtinOnce.Do(func() {
		f, err := opentype.Parse(gobold.TTF)
		if err != nil { // embedded data
			panic(err)
		}
		builtin = &Source{name: BuiltinName, font: f}
	})
	return builtin
}

// Name returns the family name of the font.
func (s *Source) Name() string { return s.name }

// Path returns the file the font was loaded from, or an empty string
// for the builtin font.
func (s *Source) Path() string { return s.path }

// IsBuiltin reports whether the source is the embedded fallback.
func (s *Source) IsBuiltin() bool { return s.path == "" }

// Face returns a face at `size` pixels.
func (s *Source) Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.Mark(errors.Newf("invalid font size %g", size), apperr.ErrInvalidInput)
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating face for %s", s.name)
	}
	return face, nil
}

// Dirs returns the conventional font directories of the platforms
// supported, user directories first.
func Dirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	dirs = append(dirs,
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/Library/Fonts",
		"/System/Library/Fonts/Supplemental",
		"/System/Library/Fonts",
	)
	if windir := os.Getenv("WINDIR"); windir != "" {
		dirs = append(dirs, filepath.Join(windir, "Fonts"))
	}
	return dirs
}

// familyKey normalizes a family name or a file stem for comparison.
func familyKey(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
}

// styles accepted after the family name in a file stem, by preference.
var styles = []string{"", "regular", "r", "bold", "b", "medium"}

// candidate is a font file matching a family, with its style rank.
type candidate struct {
	path string
	rank int
}

// matchStyle returns the style rank of the file stem for the family
// (lower is better), or -1 if the file is not part of the family.
func matchStyle(stem, family string) int {
	key, fam := familyKey(stem), familyKey(family)
	if !strings.HasPrefix(key, fam) {
		return -1
	}
	rest := key[len(fam):]
	for i, s := range styles {
		if rest == s {
			return i
		}
	}
	return -1
}

// listFonts returns every .ttf and .otf file below `dirs`.
// Missing or unreadable directories are skipped.
func listFonts(fsys afero.Fs, dirs []string) []string {
	var files []string
	for _, dir := range dirs {
		if ok, _ := afero.DirExists(fsys, dir); !ok {
			continue
		}
		_ = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return nil // keep walking
			}
			if info.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf":
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}

// Lookup returns the first family of `families` found below `dirs`,
// or Builtin() when none is usable. Files that fail to parse are skipped.
func Lookup(fsys afero.Fs, dirs []string, families []string) *Source {
	files := listFonts(fsys, dirs)
	for _, family := range families {
		var cands []candidate
		for _, path := range files {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if rank := matchStyle(stem, family); rank >= 0 {
				cands = append(cands, candidate{path: path, rank: rank})
			}
		}
		sort.SliceStable(cands, func(i, j int) bool {
			if cands[i].rank != cands[j].rank {
				return cands[i].rank < cands[j].rank
			}
			return cands[i].path < cands[j].path
		})
		for _, c := range cands {
			if src, err := Load(fsys, c.path); err == nil {
				return src
			}
		}
	}
	return Builtin()
}

// Load parses the font file at `path`.
func Load(fsys afero.Fs, path string) (*Source, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading font %s", path)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing font %s", path)
	}
	name, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &Source{name: name, path: path, font: f}, nil
}

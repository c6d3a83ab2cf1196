package png2src

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/wasm4kit/png2src/sprite"
)

var (
	// ErrNotDirectory is returned when a module tree is built from a
	// path that is not a directory.
	ErrNotDirectory = errors.New("png2src: not a directory")

	// ErrNoName is returned when a directory path has no usable final
	// element to name the module after.
	ErrNoName = errors.New("png2src: directory has no name")

	// ErrNoStem is returned when a sprite file name has no stem to name
	// the sprite after.
	ErrNoStem = errors.New("png2src: file has no stem")

	// ErrNotUTF8 is returned when a path needed in generated output is
	// not valid UTF-8.
	ErrNotUTF8 = errors.New("png2src: path is not valid utf-8")
)

// A Module mirrors one directory of sprite sources: the PNG files it
// holds directly plus the subdirectories holding more of them.
type Module struct {
	name        string
	spritePaths []string
	submodules  []*Module
}

// NewModule builds a module with its sprite paths and submodules in
// canonical sorted order, duplicates removed.
func NewModule(name string, spritePaths []string, submodules []*Module) *Module {
	paths := slices.Clone(spritePaths)
	slices.Sort(paths)
	paths = slices.Compact(paths)

	subs := slices.Clone(submodules)
	slices.SortFunc(subs, (*Module).Compare)
	subs = slices.CompactFunc(subs, func(a, b *Module) bool { return a.Compare(b) == 0 })

	return &Module{
		name:        name,
		spritePaths: paths,
		submodules:  subs,
	}
}

func (m *Module) Name() string { return m.name }

func (m *Module) SpritePaths() []string { return m.spritePaths }

func (m *Module) Submodules() []*Module { return m.submodules }

// Compare orders modules by name, then sprite paths, then submodules.
func (m *Module) Compare(o *Module) int {
	if c := strings.Compare(m.name, o.name); c != 0 {
		return c
	}
	if c := slices.Compare(m.spritePaths, o.spritePaths); c != 0 {
		return c
	}
	return slices.CompareFunc(m.submodules, o.submodules, (*Module).Compare)
}

// BuildModuleTree scans dir recursively into a module tree. Direct
// children whose extension is exactly "png" become sprite paths and
// subdirectories become submodules, except those with no sprites
// anywhere beneath them, which are pruned.
func BuildModuleTree(dir string) (*Module, error) {
	name := filepath.Base(filepath.Clean(dir))
	switch name {
	case ".", "..", string(filepath.Separator):
		return nil, fmt.Errorf("%s: %w", dir, ErrNoName)
	}
	if !utf8.ValidString(name) {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotUTF8)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("png2src: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("png2src: %w", err)
	}

	var (
		paths []string
		subs  []*Module
	)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		fi, err := os.Stat(path)
		if err != nil {
			// Neither a readable file nor a directory, e.g. a broken
			// symlink.
			continue
		}

		switch {
		case fi.Mode().IsRegular():
			if _, ext := splitName(entry.Name()); ext == "png" {
				paths = append(paths, path)
			}
		case fi.IsDir():
			sub, err := BuildModuleTree(path)
			if err != nil {
				return nil, err
			}
			if len(sub.spritePaths) > 0 || len(sub.submodules) > 0 {
				subs = append(subs, sub)
			}
		}
	}

	return NewModule(name, paths, subs), nil
}

// splitName splits a file name into stem and extension. A name whose
// only dot is the leading one, such as ".png", is all stem and has no
// extension.
func splitName(base string) (string, string) {
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		return base, ""
	}
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return base, ""
	}
	return base[:i], base[i+1:]
}

// Stem returns the sprite name for a path: its file name without the
// extension.
func Stem(path string) (string, error) {
	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%s: %w", path, ErrNoStem)
	}
	if !utf8.ValidString(base) {
		return "", fmt.Errorf("%s: %w", path, ErrNotUTF8)
	}
	s, _ := splitName(base)
	return s, nil
}

// Flatten merges every descendant sprite path into a copy of the root
// module, discarding the submodule hierarchy. The root keeps its name.
// Flattening an already flat module is a no-op.
func (m *Module) Flatten() *Module {
	paths := slices.Clone(m.spritePaths)
	for _, sub := range m.submodules {
		paths = append(paths, sub.Flatten().spritePaths...)
	}
	return NewModule(m.name, paths, nil)
}

// Parse converts every sprite path in the tree, producing a parsed
// module with sprite records in place of paths. The first failing path
// aborts the whole parse.
func (m *Module) Parse() (*ParsedModule, error) {
	sprites := make([]*sprite.Sprite, 0, len(m.spritePaths))
	for _, path := range m.spritePaths {
		name, err := Stem(path)
		if err != nil {
			return nil, err
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("png2src: %w", err)
		}

		s, err := sprite.Convert(name, b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sprites = append(sprites, s)
	}

	submodules := make([]*ParsedModule, 0, len(m.submodules))
	for _, sub := range m.submodules {
		p, err := sub.Parse()
		if err != nil {
			return nil, err
		}
		submodules = append(submodules, p)
	}

	return NewParsedModule(m.name, sprites, submodules), nil
}

// WriteBuildInstructions emits one cargo:rerun-if-changed line per
// sprite path so an external build script reruns generation when a
// source image changes. Each module writes its own paths before
// descending into submodules in sorted order.
func (m *Module) WriteBuildInstructions(w io.Writer) error {
	for _, path := range m.spritePaths {
		if !utf8.ValidString(path) {
			return fmt.Errorf("%s: %w", path, ErrNotUTF8)
		}
		if _, err := fmt.Fprintf(w, "cargo:rerun-if-changed=%s\n", path); err != nil {
			return err
		}
	}
	for _, sub := range m.submodules {
		if err := sub.WriteBuildInstructions(w); err != nil {
			return err
		}
	}
	return nil
}

// A ParsedModule is a Module with every sprite path replaced by its
// converted sprite record.
type ParsedModule struct {
	name       string
	sprites    []*sprite.Sprite
	submodules []*ParsedModule
}

// NewParsedModule builds a parsed module with its sprites and
// submodules in canonical sorted order, duplicates removed.
func NewParsedModule(name string, sprites []*sprite.Sprite, submodules []*ParsedModule) *ParsedModule {
	ss := slices.Clone(sprites)
	slices.SortFunc(ss, (*sprite.Sprite).Compare)
	ss = slices.CompactFunc(ss, func(a, b *sprite.Sprite) bool { return a.Compare(b) == 0 })

	subs := slices.Clone(submodules)
	slices.SortFunc(subs, (*ParsedModule).Compare)
	subs = slices.CompactFunc(subs, func(a, b *ParsedModule) bool { return a.Compare(b) == 0 })

	return &ParsedModule{
		name:       name,
		sprites:    ss,
		submodules: subs,
	}
}

func (m *ParsedModule) Name() string { return m.name }

func (m *ParsedModule) Sprites() []*sprite.Sprite { return m.sprites }

func (m *ParsedModule) Submodules() []*ParsedModule { return m.submodules }

// Compare orders parsed modules by name, then sprites, then submodules.
func (m *ParsedModule) Compare(o *ParsedModule) int {
	if c := strings.Compare(m.name, o.name); c != 0 {
		return c
	}
	if c := slices.CompareFunc(m.sprites, o.sprites, (*sprite.Sprite).Compare); c != 0 {
		return c
	}
	return slices.CompareFunc(m.submodules, o.submodules, (*ParsedModule).Compare)
}

const indent = "    "

// WriteSource renders the tree as nested pub mod blocks with every
// sprite's constant declarations made public, indented four spaces per
// nesting level.
func (m *ParsedModule) WriteSource(w io.Writer, f sprite.Format) error {
	return m.writeSource(w, 0, f)
}

func (m *ParsedModule) writeSource(w io.Writer, level int, f sprite.Format) error {
	prefix := strings.Repeat(indent, level)

	if _, err := fmt.Fprintf(w, "%spub mod %s {\n", prefix, m.name); err != nil {
		return err
	}

	inner := prefix + indent
	for _, s := range m.sprites {
		for _, line := range strings.Split(strings.TrimSuffix(s.Source(f), "\n"), "\n") {
			if _, err := fmt.Fprintf(w, "%spub %s\n", inner, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	for _, sub := range m.submodules {
		if err := sub.writeSource(w, level+1, f); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s}\n\n", prefix); err != nil {
		return err
	}

	return nil
}

// Package tree loads strictly validated technology definitions authored in
// CUE, and lints the resulting graph.
//
// This is the authoring front door, the strict counterpart to the permissive
// wire codec: schema violations, duplicate ids, unknown kinds, and negative
// costs are hard errors with source positions. The linter additionally
// reports conditions that are legal at runtime but usually author mistakes -
// dangling prerequisite references and prerequisite cycles.
package tree

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/stratagem/techtree/internal/tech"
)

//go:embed schema.cue
var schemaCUE string

// Load reads every .cue file in dir and returns the technologies they
// define. Files merge into a single flat list; ids must be unique across
// the whole directory.
//
// On failure the technology slice is nil and at least one error is
// returned; all errors are *LoadError where a position could be attributed.
func Load(dir string) ([]tech.Technology, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("definitions directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing definitions directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	return LoadFiles(files)
}

// LoadFiles loads technology definitions from the given .cue files.
func LoadFiles(paths []string) ([]tech.Technology, []error) {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a programming error.
		panic(fmt.Sprintf("tree: embedded schema does not compile: %v", err))
	}

	var (
		techs []tech.Technology
		errs  []error
		seen  = make(map[string]bool)
	)

	for _, path := range paths {
		fileTechs, fileErrs := loadFile(cctx, schema, path)
		errs = append(errs, fileErrs...)
		for _, t := range fileTechs {
			if seen[t.ID] {
				errs = append(errs, &LoadError{
					Code:    ErrCodeDuplicateID,
					Message: fmt.Sprintf("technology %q is defined more than once", t.ID),
				})
				continue
			}
			seen[t.ID] = true
			techs = append(techs, t)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return techs, nil
}

// Registry loads a directory and assembles the result into a registry.
func Registry(dir string) (*tech.Registry, []error) {
	techs, errs := Load(dir)
	if len(errs) > 0 {
		return nil, errs
	}
	reg := tech.NewRegistry()
	for _, t := range techs {
		reg.Add(t)
	}
	return reg, nil
}

func loadFile(cctx *cue.Context, schema cue.Value, path string) ([]tech.Technology, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}}
	}

	value := cctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeMalformed, Message: err.Error()}}
	}

	unified := value.Unify(schema)
	if err := unified.Validate(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeMalformed, Message: err.Error(), Pos: unified.Pos()}}
	}

	list := unified.LookupPath(cue.ParsePath("technologies"))
	if !list.Exists() {
		// A file with no technologies list contributes nothing. This keeps
		// shared-definition helper files legal.
		return nil, nil
	}

	iter, err := list.List()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("technologies is not a list: %v", err), Pos: list.Pos()}}
	}

	var (
		techs []tech.Technology
		errs  []error
	)
	for iter.Next() {
		t, err := extractTechnology(iter.Value())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		techs = append(techs, t)
	}
	return techs, errs
}

// extractTechnology converts one concrete #Technology value into the data
// model. Schema unification has already applied defaults and bounds; the
// checks here exist to attribute a precise code and position to anything
// that slipped through as non-concrete.
func extractTechnology(v cue.Value) (tech.Technology, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: err.Error(), Pos: v.Pos()}
	}

	id, err := v.LookupPath(cue.ParsePath("id")).String()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("id: %v", err), Pos: v.Pos()}
	}
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: name: %v", id, err), Pos: v.Pos()}
	}
	description, err := v.LookupPath(cue.ParsePath("description")).String()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: description: %v", id, err), Pos: v.Pos()}
	}

	kindStr, err := v.LookupPath(cue.ParsePath("requires.kind")).String()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: requires.kind: %v", id, err), Pos: v.Pos()}
	}
	kind := tech.Kind(kindStr)
	if !tech.ValidKinds[kind] {
		return tech.Technology{}, &LoadError{
			Code:    ErrCodeBadKind,
			Message: fmt.Sprintf("%s: unknown requires.kind %q", id, kindStr),
			Pos:     v.Pos(),
		}
	}

	idsVal := v.LookupPath(cue.ParsePath("requires.ids"))
	idsIter, err := idsVal.List()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: requires.ids: %v", id, err), Pos: idsVal.Pos()}
	}
	var prereqIDs []string
	for idsIter.Next() {
		p, err := idsIter.Value().String()
		if err != nil {
			return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: requires.ids: %v", id, err), Pos: idsVal.Pos()}
		}
		prereqIDs = append(prereqIDs, p)
	}

	cost, err := v.LookupPath(cue.ParsePath("cost")).Int64()
	if err != nil {
		return tech.Technology{}, &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf("%s: cost: %v", id, err), Pos: v.Pos()}
	}
	if cost < 0 {
		return tech.Technology{}, &LoadError{
			Code:    ErrCodeBadCost,
			Message: fmt.Sprintf("%s: cost must be non-negative, got %d", id, cost),
			Pos:     v.Pos(),
		}
	}

	prereqs := tech.RequireAll(prereqIDs...)
	if kind == tech.KindAny {
		prereqs = tech.RequireAny(prereqIDs...)
	}

	return tech.Technology{
		ID:          id,
		Name:        name,
		Description: description,
		Prereqs:     prereqs,
		Cost:        int(cost),
	}, nil
}

// findCUEFiles returns the .cue files directly under dir, sorted by path so
// load order (and so duplicate attribution) is deterministic.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".cue") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

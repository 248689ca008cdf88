package pedigree

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultMissingParent are the notations recognized as "no parent recorded"
// when [ParseOptions.MissingParent] is empty.
var DefaultMissingParent = []string{"-1", "."}

// ParseOptions configures pedigree text parsing.
type ParseOptions struct {
	// Separator splits a line into columns. Empty means any run of
	// whitespace.
	Separator string

	// MissingParent lists the notations denoting an absent parent.
	// Empty means [DefaultMissingParent].
	MissingParent []string

	// SkipFirstLine drops the first line unconditionally. Useful for
	// headers that do not start with '#'.
	SkipFirstLine bool

	// Probands reduces the parsed pedigree to the ascending genealogy of
	// these vertices. Empty keeps the whole pedigree.
	Probands []int

	// Logger receives warnings about duplicate records. Nil is silent.
	Logger *log.Logger
}

// ParseFile reads a pedigree from the file at path.
func ParseFile(path string, opts ParseOptions) (*Pedigree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	ped, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ped, nil
}

// Parse reads a pedigree in the text format described in the package
// documentation. Each line carries an individual id followed by up to two
// parent ids; columns beyond the third are ignored. A first line starting
// with '#' is treated as a header and skipped.
func Parse(r io.Reader, opts ParseOptions) (*Pedigree, error) {
	missing := opts.MissingParent
	if len(missing) == 0 {
		missing = DefaultMissingParent
	}

	ped := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if lineno == 1 && (opts.SkipFirstLine || strings.HasPrefix(line, "#")) {
			continue
		}
		if line == "" {
			continue
		}
		if err := parseLine(ped, line, lineno, &opts, missing); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pedigree: %w", err)
	}

	if len(opts.Probands) > 0 {
		reduced, err := ped.Reduce(opts.Probands)
		if err != nil {
			return nil, err
		}
		ped = reduced
	}
	return ped, nil
}

func parseLine(ped *Pedigree, line string, lineno int, opts *ParseOptions, missing []string) error {
	var fields []string
	if opts.Separator == "" {
		fields = strings.Fields(line)
	} else {
		fields = strings.Split(line, opts.Separator)
	}
	if len(fields) == 0 {
		return nil
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: line %d: individual id %q", ErrBadRecord, lineno, fields[0])
	}

	var parents []int
	for _, f := range fields[1:min(len(fields), 3)] {
		if slices.Contains(missing, f) {
			continue
		}
		parent, err := strconv.Atoi(f)
		if err != nil {
			return fmt.Errorf("%w: line %d: parent id %q", ErrBadRecord, lineno, f)
		}
		parents = append(parents, parent)
	}

	replaced, err := ped.Add(id, parents...)
	if err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrBadRecord, lineno, err)
	}
	// Duplicate records are legal (last definition wins) but worth surfacing.
	if replaced && opts.Logger != nil {
		opts.Logger.Warn("individual defined multiple times; keeping the last record",
			"individual", id, "line", lineno)
	}
	return nil
}

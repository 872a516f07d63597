package target

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

// SaltLen is the width of the salt prefix of a crypt(3) target such as
// "$6$KB$...". The prefix includes the algorithm tag and separators.
const SaltLen = 6

// ErrMalformedTarget is returned when a target is too short to carry a salt
// or does not follow the $tag$salt$digest layout.
var ErrMalformedTarget = errors.New("malformed target")

// Target is a salted digest to recover.
type Target struct {
	Raw       string // full $tag$salt$digest string
	Algorithm string // tag between the first two '$', e.g. "6"
	Salt      string // first SaltLen characters of Raw
	Digest    string // everything after the salt
}

// ExtractSalt returns the first n characters of raw verbatim.
func ExtractSalt(raw string, n int) (string, error) {
	if len(raw) < n {
		return "", fmt.Errorf("%w: %q shorter than salt length %d", ErrMalformedTarget, raw, n)
	}
	return raw[:n], nil
}

// Parse splits a raw target into its parts.
func Parse(raw string) (Target, error) {
	salt, err := ExtractSalt(raw, SaltLen)
	if err != nil {
		return Target{}, err
	}
	if raw[0] != '$' {
		return Target{}, fmt.Errorf("%w: %q does not start with '$'", ErrMalformedTarget, raw)
	}
	end := strings.IndexByte(raw[1:], '$')
	if end <= 0 {
		return Target{}, fmt.Errorf("%w: %q has no algorithm tag", ErrMalformedTarget, raw)
	}
	return Target{
		Raw:       raw,
		Algorithm: raw[1 : end+1],
		Salt:      salt,
		Digest:    raw[SaltLen:],
	}, nil
}

// String returns the raw target.
func (t Target) String() string { return t.Raw }

// Short abbreviates the target for log lines and tables. It cuts on a rune
// boundary.
func (t Target) Short() string {
	if utf8.RuneCountInString(t.Raw) <= 20 {
		return t.Raw
	}
	n := 0
	for i := range t.Raw {
		if n == 16 {
			return t.Raw[:i] + "…"
		}
		n++
	}
	return t.Raw
}

// Read returns the targets in r, one per line. Blank lines and lines
// starting with '#' are skipped.
func Read(r io.Reader) ([]string, error) {
	var targets []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

// LoadFile reads targets from path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening targets file: %w", err)
	}
	defer f.Close()
	targets, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading targets file %s: %w", path, err)
	}
	return targets, nil
}

// LoadGlob reads targets from every file matching pattern, which may use
// ** to descend into directories. Files are read in lexical order. A
// pattern without glob metacharacters is read as a single file.
func LoadGlob(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return LoadFile(pattern)
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding targets pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("targets pattern %q matched no files", pattern)
	}
	sort.Strings(paths)

	var targets []string
	for _, p := range paths {
		loaded, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		targets = append(targets, loaded...)
	}
	return targets, nil
}

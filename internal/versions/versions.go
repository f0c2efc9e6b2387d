// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package versions

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoVersion is returned when a spec matches no version.
	ErrNoVersion = errors.New("no matching version")
	// ErrBadSpec is returned for a malformed spec.
	ErrBadSpec = errors.New("invalid version spec")
)

// Version is one retained copy of a collection.
type Version struct {
	// ID is store specific: a backup file name or an S3 version ID.
	ID string `json:"id"`
	// Serial numbers versions oldest first, starting at 1.
	Serial int       `json:"serial"`
	Time   time.Time `json:"time"`
	Size   int64     `json:"size"`
	// Path is set when the version is a readable local file.
	Path   string `json:"path,omitempty"`
	Latest bool   `json:"latest"`
}

// Number sorts versions most recent first and assigns serials, oldest = 1.
// The most recent version is flagged Latest.
func Number(vs []Version) []Version {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Time.After(vs[j].Time)
	})
	for i := range vs {
		vs[i].Serial = len(vs) - i
		vs[i].Latest = i == 0
	}
	return vs
}

// Resolve returns the versions matching specs, in spec order. vs must be most
// recent first, as Number leaves it. A spec can be:
//
//	~N      - the N-th most recent version (~0 is the current one).
//	0, -N   - same as ~N.
//	serial  - the version with that serial.
//	file    - a local file, read as a snapshot.
//	prefix  - the most recent version whose ID starts with prefix.
//
// No spec resolves to the current version.
func Resolve(vs []Version, specs ...string) ([]Version, error) {
	if len(specs) == 0 {
		specs = []string{"~0"}
	}

	result := make([]Version, 0, len(specs))
	for _, spec := range specs {
		v, err := resolveSpec(spec, vs)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func resolveSpec(spec string, vs []Version) (Version, error) {
	switch {
	case strings.HasPrefix(spec, "~"):
		return resolveRelative(spec, vs)
	case isNumeric(spec):
		return resolveNumeric(spec, vs)
	case isFilePath(spec):
		return Version{ID: spec, Path: spec}, nil
	default:
		return resolveID(spec, vs)
	}
}

func resolveRelative(spec string, vs []Version) (Version, error) {
	index, err := strconv.Atoi(spec[1:])
	if err != nil || index < 0 {
		return Version{}, fmt.Errorf("%w: %s", ErrBadSpec, spec)
	}
	return at(index, vs)
}

func resolveNumeric(spec string, vs []Version) (Version, error) {
	i, _ := strconv.Atoi(spec)
	if i <= 0 {
		return at(-i, vs)
	}

	for _, v := range vs {
		if v.Serial == i {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%w: serial %d", ErrNoVersion, i)
}

func resolveID(spec string, vs []Version) (Version, error) {
	if spec == "" {
		return Version{}, fmt.Errorf("%w: empty spec", ErrNoVersion)
	}
	for _, v := range vs {
		if strings.HasPrefix(v.ID, spec) {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%w: id prefix %s", ErrNoVersion, spec)
}

func at(index int, vs []Version) (Version, error) {
	if index > len(vs)-1 {
		return Version{}, fmt.Errorf("%w: index %d out of range for %d versions", ErrNoVersion, index, len(vs))
	}
	return vs[index], nil
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func isFilePath(s string) bool {
	info, err := os.Stat(s)
	return err == nil && !info.IsDir()
}

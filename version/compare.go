package version

import (
	"fmt"
	"strconv"
	"strings"
)

// release is a parsed "major.minor.patch[-pre]" version. A missing patch
// counts as zero.
type release struct {
	parts [3]int
	pre   string
}

func parse(s string) (release, error) {
	var r release

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, r.pre, _ = strings.Cut(s, "-")

	fields := strings.Split(s, ".")
	if len(fields) < 2 || len(fields) > 3 {
		return r, fmt.Errorf("version %q: want major.minor.patch", s)
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return r, fmt.Errorf("version %q: bad number %q", s, f)
		}
		r.parts[i] = n
	}
	return r, nil
}

// Compare returns 1 when a is newer than b, -1 when it is older and 0
// when both name the same release. A pre-release is older than the
// release it leads up to.
func Compare(a, b string) (int, error) {
	ra, err := parse(a)
	if err != nil {
		return 0, err
	}
	rb, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range ra.parts {
		switch {
		case ra.parts[i] > rb.parts[i]:
			return 1, nil
		case ra.parts[i] < rb.parts[i]:
			return -1, nil
		}
	}

	switch {
	case ra.pre == rb.pre:
		return 0, nil
	case ra.pre == "":
		return 1, nil
	case rb.pre == "":
		return -1, nil
	case ra.pre > rb.pre:
		return 1, nil
	default:
		return -1, nil
	}
}

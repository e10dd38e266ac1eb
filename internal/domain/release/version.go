package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// minVersionSegments is the number of leading segments that take part in ordering.
const minVersionSegments = 3

// ErrMalformedVersion is returned when a string is not a dotted numeric version.
var ErrMalformedVersion = errors.New("malformed version")

// Version is a major.minor.patch triple.
type Version struct {
	// Major is the first version segment.
	Major uint64
	// Minor is the second version segment.
	Minor uint64
	// Patch is the third version segment.
	Patch uint64
}

// ParseVersion parses strings like "1.2.3", "v1.2.3" or "1.2.3.0".
// The fourth and further segments must be numeric but are ignored for ordering.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "v"), "V")

	segments := strings.Split(raw, ".")
	if len(segments) < minVersionSegments {
		return Version{}, fmt.Errorf("%q has %d segments, want at least %d: %w",
			s, len(segments), minVersionSegments, ErrMalformedVersion)
	}

	numbers := make([]uint64, 0, len(segments))

	for _, segment := range segments {
		n, err := strconv.ParseUint(segment, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("%q segment %q is not a number: %w", s, segment, ErrMalformedVersion)
		}

		numbers = append(numbers, n)
	}

	return Version{
		Major: numbers[0],
		Minor: numbers[1],
		Patch: numbers[2],
	}, nil
}

// Compare returns -1 if v is older than other, 1 if newer and 0 if equal.
func (v Version) Compare(other Version) int {
	return v.semver().Compare(other.semver())
}

// Less reports whether v orders before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return v.semver().String()
}

func (v Version) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, "", "")
}

// Compare orders two versions, see Version.Compare.
func Compare(a, b Version) int {
	return a.Compare(b)
}

package manifest

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/logging"
)

// NonUTF8Policy decides what happens to paths that are not valid UTF-8
type NonUTF8Policy string

const (
	// NonUTF8Fail aborts the build
	NonUTF8Fail NonUTF8Policy = "fail"

	// NonUTF8Lossy replaces invalid sequences with U+FFFD
	NonUTF8Lossy NonUTF8Policy = "lossy"

	// NonUTF8Ignore drops the path with a warning
	NonUTF8Ignore NonUTF8Policy = "ignore"
)

// ParseNonUTF8Policy parses a policy name
func ParseNonUTF8Policy(s string) (NonUTF8Policy, error) {
	switch p := NonUTF8Policy(strings.ToLower(s)); p {
	case NonUTF8Fail, NonUTF8Lossy, NonUTF8Ignore:
		return p, nil
	case "":
		return NonUTF8Fail, nil
	default:
		return "", errors.Newf(errors.ErrConfigValid, "unknown non-UTF-8 policy: %s", s).
			WithDetail("non_utf8", s).
			WithDetail("available", []string{string(NonUTF8Fail), string(NonUTF8Lossy), string(NonUTF8Ignore)})
	}
}

// Options controls how items become manifest lines
type Options struct {
	// Absolute keeps absolute paths instead of relativizing them
	Absolute bool

	// Prefix is prepended to every line
	Prefix string

	// Sort orders the lines lexically
	Sort bool

	NonUTF8 NonUTF8Policy

	// Logger receives warnings about dropped paths. Defaults to the
	// "manifest" component logger.
	Logger *zerolog.Logger
}

// Build converts walker items found under source into manifest lines.
// The source directory itself becomes "." when paths are relative.
func Build(items []string, source string, opts Options) ([]string, error) {
	logger := logging.GetLogger("manifest")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		line := item
		if !opts.Absolute {
			rel, err := relativize(item, source)
			if err != nil {
				return nil, err
			}
			line = rel
		}

		if !utf8.ValidString(line) {
			lossy := strings.ToValidUTF8(line, string(utf8.RuneError))
			switch opts.NonUTF8 {
			case NonUTF8Lossy:
				logger.Debug().Str("item", lossy).Msg("Converting invalid UTF-8 item to lossy item name")
				line = lossy
			case NonUTF8Ignore:
				logger.Warn().Str("item", lossy).Msg("Found invalid UTF-8 name, ignoring it")
				continue
			default:
				return nil, errors.Newf(errors.ErrNonUTF8Path, "found invalid UTF-8 name: %s", lossy).
					WithDetail(errors.DetailItemPath, lossy)
			}
		}

		lines = append(lines, opts.Prefix+line)
	}

	if opts.Sort {
		sort.Strings(lines)
	}

	return lines, nil
}

func relativize(item, source string) (string, error) {
	rel, err := filepath.Rel(source, item)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInternal, "cannot strip prefix from item '%s' with source '%s'", item, source).
			WithDetail(errors.DetailItemPath, item).
			WithDetail(errors.DetailPath, source)
	}
	return rel, nil
}

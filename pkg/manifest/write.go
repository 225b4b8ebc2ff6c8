package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/logging"
)

// Format is a manifest output format
type Format string

const (
	// FormatLines writes one path per line
	FormatLines Format = "lines"
	// FormatJSON writes {"items": [...]}
	FormatJSON Format = "json"
	// FormatYAML writes an items sequence
	FormatYAML Format = "yaml"
	// FormatTOML writes items = [...]
	FormatTOML Format = "toml"
)

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatLines, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat parses a format name. An empty name selects FormatLines.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatLines, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "":
		return FormatLines, nil
	default:
		return "", errors.Newf(errors.ErrConfigValid, "unknown output format: %s", s).
			WithDetail("format", s).
			WithDetail("available", Formats())
	}
}

// document is the shape of the structured formats
type document struct {
	Items []string `json:"items" yaml:"items" toml:"items"`
}

// Write writes lines to w in the given format
func Write(w io.Writer, lines []string, format Format) error {
	data, err := encode(lines, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrOutputWrite, "failed to write output")
	}
	return nil
}

func encode(lines []string, format Format) ([]byte, error) {
	if lines == nil {
		lines = []string{}
	}
	doc := document{Items: lines}

	switch format {
	case FormatLines, "":
		if len(lines) == 0 {
			return nil, nil
		}
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode JSON output")
		}
		return buf.Bytes(), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode YAML output")
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode TOML output")
		}
		return data, nil
	default:
		_, err := ParseFormat(string(format))
		return nil, err
	}
}

// EmitOptions controls where a manifest goes
type EmitOptions struct {
	Format Format

	// File receives the manifest instead of stdout when set
	File string

	// DryRun builds the manifest without writing it anywhere
	DryRun bool
}

// Emit writes lines to opts.File, or to stdout when no file is set
func Emit(lines []string, opts EmitOptions, stdout io.Writer) error {
	logger := logging.GetLogger("manifest")

	if opts.DryRun {
		logger.Info().Int("items", len(lines)).Msg("Dry run, not writing the files list")
		return nil
	}

	if opts.File == "" {
		return Write(stdout, lines, opts.Format)
	}

	data, err := encode(lines, opts.Format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.File, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrOutputWrite, "failed to write output file %s", opts.File).
			WithDetail(errors.DetailPath, opts.File)
	}

	logger.Info().
		Str("file", opts.File).
		Int("items", len(lines)).
		Msg("Files list written")
	return nil
}

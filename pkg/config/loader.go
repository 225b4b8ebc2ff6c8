package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/logging"
	"github.com/arthur-debert/rebackup/pkg/utils"
)

const (
	// EnvPrefix prefixes the environment variables overriding settings
	EnvPrefix = "REBACKUP_"

	// SourceConfigFile is read from the source directory when present
	SourceConfigFile = ".rebackup.toml"
)

// LoadOptions tells Load where to look for settings
type LoadOptions struct {
	// SourceDir is searched for a SourceConfigFile
	SourceDir string

	// File is an explicit configuration file, which must exist
	File string

	// Flags holds the explicitly set command-line flags, keyed by
	// configuration key
	Flags map[string]interface{}
}

// UserConfigPath returns the path of the user configuration file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "rebackup", "config.toml")
}

// Load layers every configuration source, decodes and validates the result.
// A leading ~ and environment variables are expanded in file paths.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User and source directory configuration, when present
	optional := []string{UserConfigPath()}
	if opts.SourceDir != "" {
		optional = append(optional, filepath.Join(opts.SourceDir, SourceConfigFile))
	}
	for _, path := range optional {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded configuration file")
	}

	// 3. Explicit configuration file
	opts.File = utils.ExpandPath(opts.File)
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "configuration file not found: %s", opts.File).
				WithDetail(errors.DetailPath, opts.File)
		}
		if err := loadFile(k, opts.File); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", opts.File).Msg("Loaded configuration file")
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 5. Flags
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	cfg.Output.File = utils.ExpandPath(cfg.Output.File)
	cfg.Shell.Path = utils.ExpandPath(cfg.Shell.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads a TOML or YAML file, chosen by extension
func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return errors.Newf(errors.ErrConfigLoad, "unsupported configuration file type: %s", path).
			WithDetail(errors.DetailPath, path)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail(errors.DetailPath, path)
	}
	return nil
}

// envKey maps REBACKUP_SECTION_SOME_KEY to section.some_key. Variables
// without a section are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(key, "_") {
		return ""
	}
	return strings.Replace(key, "_", ".", 1)
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

package walker

import (
	"io"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/filesystem"
	"github.com/arthur-debert/rebackup/pkg/logging"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// readDirBatch is the number of directory entries requested per ReadDir call
const readDirBatch = 128

// Walker walks source directories. A Walker holds no state between walks
// and can be reused.
type Walker struct {
	fs     types.FS
	logger zerolog.Logger
}

// Option configures a Walker
type Option func(*Walker)

// WithFS sets the filesystem the walker reads from
func WithFS(fsys types.FS) Option {
	return func(w *Walker) {
		w.fs = fsys
	}
}

// WithLogger sets the logger receiving the walk's diagnostics,
// including the warnings for skipped duplicates, cycles and aliases
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker reading the OS filesystem
func New(opts ...Option) *Walker {
	w := &Walker{
		fs:     filesystem.NewOS(),
		logger: logging.GetLogger("walker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk walks sourceDir with a default Walker
func Walk(sourceDir string, cfg *types.WalkerConfig) ([]string, error) {
	return New().Walk(sourceDir, cfg)
}

// Walk builds the list of items to back up under sourceDir.
//
// sourceDir is canonicalized first and every returned path is absolute and
// rooted at the canonical source. Items are listed depth-first, in the order
// the filesystem yields directory entries.
func (w *Walker) Walk(sourceDir string, cfg *types.WalkerConfig) ([]string, error) {
	if cfg == nil {
		cfg = types.NewWalkerConfig()
	}

	source, err := w.fs.Canonicalize(sourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCanonicalize, "failed to canonicalize path: %s", sourceDir).
			WithDetail(errors.DetailPath, sourceDir)
	}

	info, err := w.fs.Stat(source)
	if err != nil || !info.IsDir() {
		w.logger.Error().Str("path", source).Msg("Input directory not found")
		return nil, errors.New(errors.ErrDirNotFound, "directory provided to walker was not found").
			WithDetail(errors.DetailPath, source)
	}

	logger := w.logger.With().Str("source", source).Logger()
	done := logging.LogOperationStart(logger, "walk")
	defer done()

	run := &walk{
		fs:      w.fs,
		logger:  logger,
		cfg:     cfg,
		source:  source,
		history: NewHistory(),
	}
	run.history.TryVisit(source)

	items, err := run.walkDir(source)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("items", len(items)).
		Int("visited", run.history.Len()).
		Msg("Walk completed")

	return items, nil
}

// walk is the state of a single Walk call
type walk struct {
	fs      types.FS
	logger  zerolog.Logger
	cfg     *types.WalkerConfig
	source  string
	history *History
}

// walkDir returns the items found below dir. A directory contributing no
// item is returned as a leaf itself, unless empty directories are dropped.
func (w *walk) walkDir(dir string) ([]string, error) {
	w.logger.Debug().Str("path", dir).Msg("Walking into directory")

	names, err := w.listDir(dir)
	if err != nil {
		return nil, err
	}

	var items []string
	for _, name := range names {
		if items, err = w.walkItem(filepath.Join(dir, name), items); err != nil {
			return nil, err
		}
	}

	if len(items) == 0 {
		if w.cfg.DropEmptyDirs {
			w.logger.Trace().Str("path", dir).Msg("Dropping empty directory")
			return nil, nil
		}
		return []string{dir}, nil
	}

	return items, nil
}

// listDir reads the names of dir's entries, in filesystem order. The
// directory is closed before any entry is processed so that deep trees do
// not pile up open descriptors.
func (w *walk) listDir(dir string) ([]string, error) {
	reader, err := w.fs.OpenDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWalkDir, "failed to walk directory: %s", dir).
			WithDetail(errors.DetailPath, dir)
	}
	defer func() { _ = reader.Close() }()

	var names []string
	for {
		entries, err := reader.ReadDir(readDirBatch)
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrReadDirEntry, "failed to read directory entry in %s", dir).
				WithDetail(errors.DetailPath, dir)
		}
	}
}

// walkItem processes one item and appends what it contributes to items
func (w *walk) walkItem(itemPath string, items []string) ([]string, error) {
	info, err := w.fs.Lstat(itemPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrItemMetadata, "failed to get metadata from item at path: %s", itemPath).
			WithDetail(errors.DetailPath, itemPath)
	}
	itemType := types.ItemTypeFromMode(info.Mode())

	logger := w.logger.With().Str("path", itemPath).Stringer("type", itemType).Logger()
	logger.Trace().Msg("Treating item")

	if !w.history.TryVisit(itemPath) {
		logger.Warn().Msg("Item was already walked on, skipping it")
		return items, nil
	}

	if itemType == types.ItemSymlink {
		if !w.cfg.FollowSymlinks {
			logger.Debug().Msg("Detected symlink, skipping based on configuration")
			return items, nil
		}

		target, err := w.fs.Readlink(itemPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrReadSymlinkTarget,
				"failed to read the target of the symbolic link at path: %s", itemPath).
				WithDetail(errors.DetailPath, itemPath)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(itemPath), target)
		}
		if w.history.Contains(filepath.Clean(target)) {
			logger.Warn().Str("target", target).Msg("Symlink target was already walked on, skipping it")
			return items, nil
		}

		logger.Debug().Str("target", target).Msg("Detected symlink, following it based on configuration")
	}

	canonical, err := w.fs.Canonicalize(itemPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCanonicalize, "failed to canonicalize path: %s", itemPath).
			WithDetail(errors.DetailPath, itemPath)
	}
	if canonical != itemPath && !w.history.TryVisit(canonical) {
		logger.Warn().Str("canonical", canonical).Msg("Item was already walked on through another path, skipping it")
		return items, nil
	}

	directive, err := w.evaluate(itemPath, itemType)
	if err != nil {
		return nil, err
	}

	switch directive.Kind {
	case DirectiveSkipItem:
		logger.Debug().Msg("Item excluded by rule")
		return items, nil

	case DirectiveMapItem:
		logger.Debug().
			Int("items", len(directive.Paths)).
			Bool("absolute", directive.Absolute).
			Msg("Rule mapped item to a list")

		if directive.Absolute {
			seen := make(map[string]struct{}, len(directive.Paths))
			for _, mapped := range directive.Paths {
				if _, dup := seen[mapped]; dup {
					logger.Warn().Str("mapped", mapped).Msg("Mapped item listed more than once, skipping it")
					continue
				}
				seen[mapped] = struct{}{}
				items = append(items, mapped)
			}
			return items, nil
		}
		for _, mapped := range directive.Paths {
			if items, err = w.walkItem(mapped, items); err != nil {
				return nil, err
			}
		}
		return items, nil
	}

	// A followed symlink is classified through its target here
	if itemType != types.ItemDirectory {
		if itemType == types.ItemFile {
			return append(items, itemPath), nil
		}
		target, err := w.fs.Stat(itemPath)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrItemMetadata, "failed to get metadata from item at path: %s", itemPath).
				WithDetail(errors.DetailPath, itemPath)
		}
		if !target.IsDir() {
			return append(items, itemPath), nil
		}
	}

	nested, err := w.walkDir(itemPath)
	if err != nil {
		return nil, err
	}
	return append(items, nested...), nil
}

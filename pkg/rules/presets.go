package rules

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// BackupListFile is the file the backup_list preset maps directories with
const BackupListFile = ".rebackup-list"

// Preset is a named, ready-made rule
type Preset struct {
	Name        string
	Description string
	build       func() types.Rule
}

// Rule builds a fresh instance of the preset's rule
func (p Preset) Rule() types.Rule {
	return p.build()
}

var presets = map[string]Preset{
	"dotgit": {
		Name:        "dotgit",
		Description: "Exclude .git directories",
		build: func() types.Rule {
			return namedDirRule("dotgit", "Exclude .git directories", ".git")
		},
	},
	"node_modules": {
		Name:        "node_modules",
		Description: "Exclude node_modules directories",
		build: func() types.Rule {
			return namedDirRule("node_modules", "Exclude node_modules directories", "node_modules")
		},
	},
	"nomedia": {
		Name:        "nomedia",
		Description: "Exclude directories containing a .nomedia file",
		build: func() types.Rule {
			return &types.FuncRule{
				RuleName:        "nomedia",
				RuleDescription: "Exclude directories containing a .nomedia file",
				Only:            types.Only(types.ItemDirectory),
				MatchFn: func(itemPath string, _ *types.WalkerConfig, _ string) bool {
					return isFile(filepath.Join(itemPath, ".nomedia"))
				},
				ActionFn: types.Always(types.ExcludeItem()),
			}
		},
	},
	"cargo_target": {
		Name:        "cargo_target",
		Description: "Exclude the target directory of Cargo projects",
		build: func() types.Rule {
			return &types.FuncRule{
				RuleName:        "cargo_target",
				RuleDescription: "Exclude the target directory of Cargo projects",
				Only:            types.Only(types.ItemDirectory),
				MatchFn: func(itemPath string, _ *types.WalkerConfig, _ string) bool {
					return filepath.Base(itemPath) == "target" &&
						isFile(filepath.Join(filepath.Dir(itemPath), "Cargo.toml"))
				},
				ActionFn: types.Always(types.ExcludeItem()),
			}
		},
	},
	"gitignore": {
		Name:        "gitignore",
		Description: "Exclude items ignored by the .gitignore files of their Git repository",
		build: func() types.Rule {
			return newGitignoreRule()
		},
	},
	"backup_list": {
		Name:        "backup_list",
		Description: "Map directories containing a " + BackupListFile + " file to the items it lists",
		build: func() types.Rule {
			return &types.FuncRule{
				RuleName:        "backup_list",
				RuleDescription: "Map directories to the items listed in their " + BackupListFile + " file",
				Only:            types.Only(types.ItemDirectory),
				MatchFn: func(itemPath string, _ *types.WalkerConfig, _ string) bool {
					return isFile(filepath.Join(itemPath, BackupListFile))
				},
				ActionFn: backupListAction,
			}
		},
	},
}

// LookupPreset returns the preset with the given name
func LookupPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, errors.Newf(errors.ErrConfigValid, "unknown preset: %s", name).
			WithDetail("preset", name).
			WithDetail("available", PresetNames())
	}
	return preset, nil
}

// Presets returns every preset, sorted by name
func Presets() []Preset {
	list := make([]Preset, 0, len(presets))
	for _, preset := range presets {
		list = append(list, preset)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// PresetNames returns the names of every preset, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func namedDirRule(name, description, dirName string) types.Rule {
	return &types.FuncRule{
		RuleName:        name,
		RuleDescription: description,
		Only:            types.Only(types.ItemDirectory),
		MatchFn: func(itemPath string, _ *types.WalkerConfig, _ string) bool {
			return filepath.Base(itemPath) == dirName
		},
		ActionFn: types.Always(types.ExcludeItem()),
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// backupListAction maps a directory to the paths listed in its list file,
// one per line. Blank lines and lines starting with # are ignored.
func backupListAction(itemPath string, _ *types.WalkerConfig, _ string) (types.RuleResult, error) {
	file, err := os.Open(filepath.Join(itemPath, BackupListFile))
	if err != nil {
		return types.RuleResult{}, err
	}
	defer func() { _ = file.Close() }()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return types.RuleResult{}, err
	}

	return types.MapAsList(paths, false), nil
}

// gitignoreRule excludes the items the enclosing Git repository ignores.
// Patterns are read once per repository.
type gitignoreRule struct {
	mu       sync.Mutex
	matchers map[string]gitignore.Matcher
}

func newGitignoreRule() *gitignoreRule {
	return &gitignoreRule{matchers: make(map[string]gitignore.Matcher)}
}

func (r *gitignoreRule) Name() string {
	return "gitignore"
}

func (r *gitignoreRule) Description() string {
	return "Exclude items ignored by the .gitignore files of their Git repository"
}

func (r *gitignoreRule) OnlyFor() (types.ItemType, bool) {
	return types.ItemFile, false
}

func (r *gitignoreRule) Matches(itemPath string, _ *types.WalkerConfig, _ string) bool {
	_, ok := repositoryRoot(itemPath)
	return ok
}

func (r *gitignoreRule) Action(itemPath string, _ *types.WalkerConfig, _ string) (types.RuleResult, error) {
	root, ok := repositoryRoot(itemPath)
	if !ok || root == itemPath {
		return types.IncludeItem(), nil
	}

	matcher, err := r.matcher(root)
	if err != nil {
		return types.RuleResult{}, err
	}

	rel, err := filepath.Rel(root, itemPath)
	if err != nil {
		return types.RuleResult{}, err
	}

	if matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir(itemPath)) {
		return types.ExcludeItem(), nil
	}
	return types.IncludeItem(), nil
}

func (r *gitignoreRule) matcher(root string) (gitignore.Matcher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.matchers[root]; ok {
		return m, nil
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil {
		return nil, err
	}

	m := gitignore.NewMatcher(patterns)
	r.matchers[root] = m
	return m, nil
}

// repositoryRoot returns the closest directory, itemPath included, that
// holds a .git directory
func repositoryRoot(itemPath string) (string, bool) {
	for dir := itemPath; ; {
		if isDir(filepath.Join(dir, ".git")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

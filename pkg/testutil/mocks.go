package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/rebackup/pkg/types"
)

// MockRule is a mock implementation of the types.Rule interface for testing.
// Every function field is optional; the defaults match every item and
// leave it untouched.
type MockRule struct {
	NameFunc        func() string
	DescriptionFunc func() string
	OnlyForFunc     func() (types.ItemType, bool)
	MatchesFunc     func(itemPath string, cfg *types.WalkerConfig, source string) bool
	ActionFunc      func(itemPath string, cfg *types.WalkerConfig, source string) (types.RuleResult, error)

	mu      sync.Mutex
	actions []string
}

// NewMockRule creates a mock rule producing result on every item
func NewMockRule(name string, result types.RuleResult) *MockRule {
	return &MockRule{
		NameFunc: func() string { return name },
		ActionFunc: func(string, *types.WalkerConfig, string) (types.RuleResult, error) {
			return result, nil
		},
	}
}

// Name returns the mock's name.
func (m *MockRule) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock-rule"
}

// Description returns the mock's description.
func (m *MockRule) Description() string {
	if m.DescriptionFunc != nil {
		return m.DescriptionFunc()
	}
	return "A mock rule for testing."
}

// OnlyFor returns the mock's item type filter.
func (m *MockRule) OnlyFor() (types.ItemType, bool) {
	if m.OnlyForFunc != nil {
		return m.OnlyForFunc()
	}
	return types.ItemFile, false
}

// Matches runs the mock's match function.
func (m *MockRule) Matches(itemPath string, cfg *types.WalkerConfig, source string) bool {
	if m.MatchesFunc != nil {
		return m.MatchesFunc(itemPath, cfg, source)
	}
	return true
}

// Action records the call and runs the mock's action function.
func (m *MockRule) Action(itemPath string, cfg *types.WalkerConfig, source string) (types.RuleResult, error) {
	m.mu.Lock()
	m.actions = append(m.actions, itemPath)
	m.mu.Unlock()

	if m.ActionFunc != nil {
		return m.ActionFunc(itemPath, cfg, source)
	}
	return types.SkipRule(), nil
}

// ActionCalls returns the item paths the action ran on, in order
func (m *MockRule) ActionCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.actions))
	copy(calls, m.actions)
	return calls
}

// FailingFS wraps a types.FS and fails the operations whose error function
// returns non-nil for the given path. Nil functions pass through.
type FailingFS struct {
	types.FS

	StatErr     func(name string) error
	LstatErr    func(name string) error
	ReadlinkErr func(name string) error
	OpenDirErr  func(name string) error

	// ReadDirErr fails listing a directory that opened fine
	ReadDirErr func(name string) error
}

// FailOn returns an error function failing with err on path only
func FailOn(path string, err error) func(string) error {
	return func(name string) error {
		if name == path {
			return err
		}
		return nil
	}
}

// Stat fails or delegates to the wrapped FS.
func (f *FailingFS) Stat(name string) (fs.FileInfo, error) {
	if err := check(f.StatErr, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

// Lstat fails or delegates to the wrapped FS.
func (f *FailingFS) Lstat(name string) (fs.FileInfo, error) {
	if err := check(f.LstatErr, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

// Readlink fails or delegates to the wrapped FS.
func (f *FailingFS) Readlink(name string) (string, error) {
	if err := check(f.ReadlinkErr, name); err != nil {
		return "", err
	}
	return f.FS.Readlink(name)
}

// OpenDir fails, or opens name through the wrapped FS and fails its listing
// when ReadDirErr says so.
func (f *FailingFS) OpenDir(name string) (types.DirReader, error) {
	if err := check(f.OpenDirErr, name); err != nil {
		return nil, err
	}
	reader, err := f.FS.OpenDir(name)
	if err != nil {
		return nil, err
	}
	if err := check(f.ReadDirErr, name); err != nil {
		return &failingDir{DirReader: reader, err: err}, nil
	}
	return reader, nil
}

func check(fn func(string) error, name string) error {
	if fn == nil {
		return nil
	}
	return fn(name)
}

type failingDir struct {
	types.DirReader
	err error
}

func (d *failingDir) ReadDir(int) ([]fs.DirEntry, error) {
	return nil, d.err
}

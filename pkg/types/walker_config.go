package types

// WalkerConfig configures a single walk. It is owned by the caller for the
// duration of the walk and is read-only for the walker and the rules.
type WalkerConfig struct {
	// Rules are applied on each item, in order
	Rules []Rule

	// FollowSymlinks makes the walker traverse symbolic links instead of skipping them
	FollowSymlinks bool

	// DropEmptyDirs omits directories that contribute no item to the output
	DropEmptyDirs bool
}

// NewWalkerConfig creates a default configuration from rules
func NewWalkerConfig(rules ...Rule) *WalkerConfig {
	return &WalkerConfig{
		Rules:          rules,
		FollowSymlinks: false,
		DropEmptyDirs:  false,
	}
}

package genconfig

// Message constants
const (
	MsgShort   = "Generate a configuration file with every default setting"
	MsgLong    = "Output the default configuration, with every setting commented out, to stdout or to the user configuration file.\n\nWith -w, the file is written to $XDG_CONFIG_HOME/rebackup/config.toml unless it already exists."
	MsgExample = `  rebackup gen-config                  # Output to stdout
  rebackup gen-config -w               # Write to the user configuration file`

	MsgWritten    = "Configuration written to %s\n"
	MsgErrExists  = "configuration file already exists: %s"
	MsgErrWriting = "failed to write configuration file %s"
)

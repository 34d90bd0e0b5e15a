package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Format FormatCmd `cmd:"" help:"Format source files in the canonical style."`
	Check  CheckCmd  `cmd:"" help:"Verify that source files are formatted, without rewriting them."`
	Ast    AstCmd    `cmd:"" help:"Parse a source file and dump its annotated syntax tree."`
	Watch  WatchCmd  `cmd:"" help:"Watch a directory and reformat files as they change."`
}

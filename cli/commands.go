package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Config    string `help:"Asset configuration JSON file (reporting currency, seed, assets)." type:"existingfile" placeholder:"FILE"`
}

type Commands struct {
	Globals

	Gains   GainsCmd   `cmd:"" help:"Compute capital gains from a transaction history."`
	Convert ConvertCmd `cmd:"" help:"Convert an exchange export to the transaction CSV format."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging transaction files."`
	Web     WebCmd     `cmd:"" help:"Start a web server serving gains as JSON."`
}

package types

// OutputFormat selects one of the report encodings.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputCSV   OutputFormat = "csv"
	OutputTSV   OutputFormat = "tsv"
)

// Valid reports whether the format is one of the supported encodings.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputTable, OutputCSV, OutputTSV:
		return true
	}
	return false
}

// CLIArgs represents the command-line arguments. Fields are left at their zero
// value when the corresponding flag was not given, so config-file values can
// fill the gaps before defaults apply; Sort is a pointer for the same reason.
type CLIArgs struct {
	ConfigFile string
	Profile    string
	Start      string
	End        string
	Sort       *bool
	Output     OutputFormat
	Threshold  string
	Limit      int
}

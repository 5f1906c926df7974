package types

// ConsoleInterface define a interface para saída no console. Os métodos Print*
// escrevem no stream de dados (stdout); os métodos Log* escrevem diagnósticos
// (stderr), para que avisos e progresso nunca se misturem com as linhas do
// relatório.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	CreateTable() TableInterface
}

// Alignment controls how a table column is padded.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...ColumnOption)
	AddRow(cells ...interface{})
	Render() string
}

// ColumnOption adjusts one column of a table.
type ColumnOption func(*ColumnSpec)

// ColumnSpec holds the per-column display settings.
type ColumnSpec struct {
	Name     string
	Align    Alignment
	MaxWidth int
}

// WithAlignment sets the column alignment.
func WithAlignment(a Alignment) ColumnOption {
	return func(c *ColumnSpec) { c.Align = a }
}

// WithMaxWidth truncates cell values past the given display width.
func WithMaxWidth(w int) ColumnOption {
	return func(c *ColumnSpec) { c.MaxWidth = w }
}

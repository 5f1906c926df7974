package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pterm/pterm"

	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface. O stream de dados (Print*)
// vai para stdout; diagnósticos (Log*) vão para stderr, para que a saída do
// relatório possa ser redirecionada sem ruído.
type Console struct {
	out io.Writer

	info    pterm.PrefixPrinter
	warning pterm.PrefixPrinter
	err     pterm.PrefixPrinter
	success pterm.PrefixPrinter
}

// NewConsole cria um novo Console.
func NewConsole() *Console {
	return &Console{
		out:     os.Stdout,
		info:    *pterm.Info.WithWriter(os.Stderr),
		warning: *pterm.Warning.WithWriter(os.Stderr),
		err:     *pterm.Error.WithWriter(os.Stderr),
		success: *pterm.Success.WithWriter(os.Stderr),
	}
}

// Print imprime no stream de dados.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no stream de dados.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no stream de dados com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	c.info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	c.warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	c.err.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.success.Printfln(format, a...)
}

// Table é uma implementação do TableInterface com alinhamento por coluna.
type Table struct {
	columns []types.ColumnSpec
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...types.ColumnOption) {
	spec := types.ColumnSpec{Name: name}
	for _, opt := range options {
		opt(&spec)
	}
	t.columns = append(t.columns, spec)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	header := make([]string, len(t.columns))
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.Name
		widths[i] = utf8.RuneCountInString(col.Name)
	}

	// Truncate first, then measure.
	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i < len(t.columns) {
				cell = truncate(cell, t.columns[i].MaxWidth)
				if w := utf8.RuneCountInString(cell); w > widths[i] {
					widths[i] = w
				}
			}
			cells[i] = cell
		}
		rows[r] = cells
	}

	// pterm pads every cell on the right; pre-padding right-aligned cells to
	// the column width keeps the digits flush against the column edge.
	tableData := pterm.TableData{header}
	for _, row := range rows {
		for i := range row {
			if i < len(t.columns) && t.columns[i].Align == types.AlignRight {
				row[i] = padLeft(row[i], widths[i])
			}
		}
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth <= 3 {
		return string(runes[:maxWidth])
	}
	return string(runes[:maxWidth-3]) + "..."
}

func padLeft(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

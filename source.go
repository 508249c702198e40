package gnuplot

import (
	"strings"

	"github.com/google/uuid"
)

// SourceKind tells the data source variants apart.
type SourceKind uint8

const (
	SourceFormula SourceKind = iota + 1
	SourceFile
	SourcePoints
	SourceBlock
)

func (k SourceKind) String() string {
	switch k {
	case SourceFormula:
		return "formula"
	case SourceFile:
		return "file"
	case SourcePoints:
		return "points"
	case SourceBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Source is where a dataset's data comes from.
type Source interface {
	Kind() SourceKind
	// Reference is the text that stands for the data in a plot command.
	Reference() string
}

// Formula is a gnuplot expression such as "sin(x)".
type Formula string

func (Formula) Kind() SourceKind    { return SourceFormula }
func (f Formula) Reference() string { return string(f) }

// File points at an existing data file.
type File string

func (File) Kind() SourceKind { return SourceFile }
func (f File) Reference() string {
	return "'" + strings.ReplaceAll(string(f), "'", "''") + "'"
}

// Columns is column-major tabular data: Columns[c][row].
type Columns [][]Value

// ColumnsOf converts each argument into one column. A single flat slice of
// scalars gives one column; a single slice of slices gives one column per
// inner slice.
func ColumnsOf(columns ...any) Columns {
	if len(columns) == 1 {
		if v := ValueOf(columns[0]); v.kind == KindSeq && len(v.seq) > 0 && v.seq[0].kind == KindSeq {
			out := make(Columns, len(v.seq))
			for i, col := range v.seq {
				out[i] = col.Items()
			}
			return out
		}
	}
	out := make(Columns, len(columns))
	for i, col := range columns {
		v := ValueOf(col)
		if v.kind == KindSeq {
			out[i] = v.Items()
		} else {
			out[i] = []Value{v}
		}
	}
	return out
}

// Rows is the length of the longest column.
func (c Columns) Rows() int {
	rows := 0
	for _, col := range c {
		if len(col) > rows {
			rows = len(col)
		}
	}
	return rows
}

// Append returns new columns with other's rows after c's. When other has
// more columns than c, the extra columns start empty.
func (c Columns) Append(other Columns) Columns {
	width := len(c)
	if len(other) > width {
		width = len(other)
	}
	out := make(Columns, width)
	for i := range out {
		var col []Value
		if i < len(c) {
			col = append(col, c[i]...)
		}
		if i < len(other) {
			col = append(col, other[i]...)
		}
		out[i] = col
	}
	return out
}

func (c Columns) clone() Columns {
	if c == nil {
		return nil
	}
	return c.Append(nil)
}

// missingField stands in for a value absent from a shorter column so the
// fields after it keep their column number.
const missingField = "NaN"

// Format renders the data as gnuplot reads it: one row per line, fields
// separated by a space. Text containing whitespace is quoted. A row ends at
// its last present field; gaps before it are written as NaN.
func (c Columns) Format() string {
	var b strings.Builder
	rows := c.Rows()
	for row := 0; row < rows; row++ {
		last := -1
		for i, col := range c {
			if row < len(col) {
				last = i
			}
		}
		for i := 0; i <= last; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			if row < len(c[i]) {
				b.WriteString(formatField(c[i][row]))
			} else {
				b.WriteString(missingField)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatField(v Value) string {
	text := SerializeValue(v)
	if v.kind == KindText && (text == "" || strings.ContainsAny(text, " \t")) {
		return `"` + text + `"`
	}
	return text
}

// Points is in-memory data rendered as an inline datablock. Each Points value
// has its own datablock name, so replacing the data always yields a new name.
type Points struct {
	name    string
	columns Columns
}

// NewPoints copies columns into a fresh datablock.
func NewPoints(columns Columns) *Points {
	return &Points{
		name:    "$DATA_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		columns: columns.clone(),
	}
}

func (*Points) Kind() SourceKind { return SourcePoints }

// Reference is the datablock name.
func (p *Points) Reference() string { return p.name }

// Columns returns a copy of the data.
func (p *Points) Columns() Columns { return p.columns.clone() }

// Declaration is the inline datablock definition that must precede any plot
// command referencing it.
func (p *Points) Declaration() string {
	return p.name + " << EOD\n" + p.columns.Format() + "EOD\n"
}

func (p *Points) appended(data Columns) *Points {
	return NewPoints(p.columns.Append(data))
}

// BlockHandle is a renderer-managed backing block: a resource with a stable
// identity whose content can be rewritten in place.
type BlockHandle interface {
	// ID is unique per block.
	ID() string
	// Ref points gnuplot at the block inside a plot command.
	Ref() string
	// Data is the block's current content.
	Data() Columns
	// Rewrite replaces the block's content.
	Rewrite(data Columns) error
}

// BlockManager creates backing blocks for in-memory data.
type BlockManager interface {
	Materialize(data Columns) (BlockHandle, error)
}

// Block is a dataset source backed by a BlockHandle. Copies of a dataset
// share the handle.
type Block struct {
	handle BlockHandle
}

// NewBlock wraps handle as a source.
func NewBlock(handle BlockHandle) *Block {
	return &Block{handle: handle}
}

func (*Block) Kind() SourceKind { return SourceBlock }

func (b *Block) Reference() string { return b.handle.Ref() }

// Handle returns the backing block.
func (b *Block) Handle() BlockHandle { return b.handle }

func (b *Block) append(data Columns) error {
	return b.handle.Rewrite(b.handle.Data().Append(data))
}

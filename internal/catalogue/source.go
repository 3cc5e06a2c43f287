package catalogue

// Row is a single catalogue row keyed by column name.
type Row map[string]string

// Table is the raw shape a [RowSource] delivers: the declared columns plus
// the rows in file order.
type Table struct {
	Columns []string
	Rows    []Row
}

// RowSource supplies tabular song data to the catalogue. Implementations
// signal a missing backing file by returning an error wrapping
// [shared.ErrCatalogueNotFound]; the catalogue itself never touches files.
type RowSource interface {
	Read() (Table, error)
}

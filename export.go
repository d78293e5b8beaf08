package docpost

import "github.com/alnah/go-docpost/internal/dataexport"

// Export is the JSON data export embedded into every page.
type Export = dataexport.Export

// ErrInvalidExport indicates the export is not a JSON object.
var ErrInvalidExport = dataexport.ErrInvalidExport

// LoadExport reads and parses the export at path.
func LoadExport(path string) (*Export, error) {
	return dataexport.Load(path)
}

// ParseExport parses an export held in memory.
func ParseExport(data []byte) (*Export, error) {
	return dataexport.Parse(data)
}

// EmptyExport returns an export with no data, embedded as "{}".
func EmptyExport() *Export {
	return dataexport.Empty()
}

package freezer

import (
	"expvar"
	"fmt"
)

var (
	recordsLoaded    = publishExpvarInt("xtra_records_loaded")
	bytesRead        = publishExpvarInt("xtra_bytes_read")
	decompressErrors = publishExpvarInt("xtra_decompress_errors")
	filesOpened      = publishExpvarInt("xtra_files_opened")
)

// publishExpvarInt returns the published Int called name, creating it if needed.
func publishExpvarInt(name string) *expvar.Int {
	v := expvar.Get(name)
	if v == nil {
		return expvar.NewInt(name)
	}
	if iv, ok := v.(*expvar.Int); ok {
		return iv
	}
	panic(fmt.Sprintf("expvar: trying to publish Int %s but variable already exists with different type %T", name, v))
}

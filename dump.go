package magicmcp

import (
	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

// Sdump renders v for debug log attributes. Map keys are sorted so the
// output is stable between calls.
func Sdump(v any) string {
	return dumpConfig.Sdump(v)
}

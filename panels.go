// Package panels provides dashboard visual components for tabular data.
//
// Usage:
//
//	import "github.com/spektr-org/panels/engine"
//
//	set := engine.Bucketize(view, engine.BucketSpec{
//	    Primary: "region",
//	    Measure: "revenue",
//	})
//
// The engine takes records (generic column → value rows) plus a component's
// resolved inputs and returns render-ready output: chart series, a sorted and
// paginated table page, or a text block.
//
// Loading data, persisting view state and drawing pixels are left to the
// host. The helpers, statestore, dashboard and render packages provide
// defaults, and cmd/panels wires them into a CLI.
package panels

package engine

import "go.uber.org/zap"

// ============================================================================
// TABLE BUILDER — Produces TableData from columns + rows + ViewState
// ============================================================================
// Pipeline: sort (whole view) → window (current page) → project (cells).
// All steps operate on RecordView; no row data is copied before projection.
// ============================================================================

// TableSpec holds the display inputs of a table component.
type TableSpec struct {
	Title   string
	Columns []Column
}

// BuildTable produces the current page of a table.
func BuildTable(spec TableSpec, view RecordView, state ViewState, opts ...Option) *TableData {
	cfg := applyOptions(opts)

	data := &TableData{
		Title:       spec.Title,
		Columns:     tableColumns(spec.Columns, state),
		Rows:        [][]Cell{},
		Page:        state.Page,
		Sort:        append([]SortKey(nil), state.Sort...),
		RowsPerPage: state.RowsPerPage,
		HasPrev:     state.Page > 0,
	}
	if len(spec.Columns) == 0 || view == nil {
		return data
	}

	data.TotalRows = view.Len()
	sorted := SortRows(view, spec.Columns, state.Sort, opts...)
	page := Window(sorted, state)
	data.Rows = Project(page, spec.Columns)

	_, end := state.Bounds(view.Len())
	data.HasNext = state.RowsPerPage > 0 && len(data.Rows) == state.RowsPerPage && end < view.Len()

	cfg.Logger.Debug("built table page",
		zap.Int("page", state.Page),
		zap.Int("rowsPerPage", state.RowsPerPage),
		zap.Int("visible", len(data.Rows)),
		zap.Int("total", data.TotalRows),
	)
	return data
}

func tableColumns(columns []Column, state ViewState) []TableColumn {
	out := make([]TableColumn, 0, len(columns))
	for _, c := range columns {
		tc := TableColumn{Column: c, Align: "left"}
		if c.NativeType == TypeNumber {
			tc.Align = "right"
		}
		if idx := state.SortIndex(c.Name); idx >= 0 {
			tc.Sorted = true
			tc.Primary = idx == 0
			tc.Direction = state.Sort[idx].Direction.normalize()
		}
		out = append(out, tc)
	}
	return out
}

package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR — Dispatcher over response states and builders
// ============================================================================
// Entry point: Execute(req, resp, state, opts...)
//
// Pipeline:
//   1. Text blocks need no data: build and return
//   2. Classify the data response (error / skeleton / stale / empty / ready)
//   3. Error → surface verbatim, no aggregation
//   4. Skeleton → placeholder, no aggregation
//   5. Dispatch to builder (chart / table)
//   6. Empty builder output → placeholder reply
// ============================================================================

// Intents.
const (
	IntentChart = "chart"
	IntentTable = "table"
	IntentText  = "text"
)

// Placeholder replies for states with nothing to draw.
const (
	ReplyLoading   = "Loading…"
	ReplyNoData    = "No data available."
	ReplyNoChart   = "Not enough data to generate a chart."
	ReplyNoColumns = "No columns selected."
)

// Request is a component's resolved render request.
type Request struct {
	Intent string
	Bucket BucketSpec // chart
	Chart  ChartSpec  // chart
	Table  TableSpec  // table
	Text   TextSpec   // text
}

// Execute renders req against a data response. state is only read for
// tables. It never fails: every problem degrades to a placeholder Result.
func Execute(req Request, resp DataResponse, state ViewState, opts ...Option) *Result {
	cfg := applyOptions(opts)

	result := &Result{Type: req.Intent, Title: title(req)}

	if req.Intent == IntentText {
		result.State = StateReady
		result.TextData = BuildText(req.Text)
		return result
	}

	result.State = resp.State()
	result.Loading = resp.IsLoading

	cfg.Logger.Debug("executing render",
		zap.String("intent", req.Intent),
		zap.String("state", string(result.State)),
		zap.Int("records", len(resp.Data)),
	)

	switch result.State {
	case StateError:
		result.Error = resp.Error
		return result
	case StateSkeleton:
		result.Reply = ReplyLoading
		return result
	}

	view := resp.View()

	switch req.Intent {
	case IntentChart:
		set := Bucketize(view, req.Bucket, opts...)
		result.ChartConfig = BuildChart(req.Chart, set)
		if result.ChartConfig == nil {
			result.Reply = ReplyNoChart
			if result.State == StateEmpty {
				result.Reply = ReplyNoData
			}
		}

	case IntentTable:
		result.TableData = BuildTable(req.Table, view, state, opts...)
		switch {
		case len(req.Table.Columns) == 0:
			result.Reply = ReplyNoColumns
		case result.State == StateEmpty:
			result.Reply = ReplyNoData
		}

	default:
		result.Type = IntentText
		result.TextData = BuildText(req.Text)
	}

	return result
}

func title(req Request) string {
	switch req.Intent {
	case IntentChart:
		return req.Chart.Title
	case IntentTable:
		return req.Table.Title
	default:
		return req.Text.Title
	}
}

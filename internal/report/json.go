package report

import (
	"encoding/json"

	"github.com/quattor/release-helper/pkg/model"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	Indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{Indent: true}
}

// FormatCollectResult formats a collection run as JSON.
func (f *JSONFormatter) FormatCollectResult(result *model.CollectResult) (string, error) {
	return f.marshal(result)
}

// FormatSyncSummary formats a milestone sync run as JSON.
func (f *JSONFormatter) FormatSyncSummary(summary *model.SyncSummary) (string, error) {
	return f.marshal(summary)
}

// FormatBumpSummary formats a milestone bump run as JSON.
func (f *JSONFormatter) FormatBumpSummary(summary *model.BumpSummary) (string, error) {
	return f.marshal(summary)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

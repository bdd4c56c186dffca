package tool

import "context"

var supportedChartTypes = []string{"bar", "line", "scatter", "pie", "area"}

// CreateChart produces a chart specification for frontend rendering. No image
// is generated server-side.
type CreateChart struct{}

// NewCreateChart constructs the chart tool.
func NewCreateChart() *CreateChart { return &CreateChart{} }

// Name implements Tool.
func (t *CreateChart) Name() string { return "create_chart" }

// Description implements Tool.
func (t *CreateChart) Description() string {
	return "Generate a chart specification (bar, line, scatter, pie, area) from labels and values."
}

// Call implements Tool.
func (t *CreateChart) Call(ctx context.Context, args map[string]any) (Result, error) {
	chartType, err := stringArg(args, "chart_type")
	if err != nil {
		return nil, err
	}
	supported := false
	for _, ct := range supportedChartTypes {
		if ct == chartType {
			supported = true
			break
		}
	}
	if !supported {
		return Result{"error": "Unsupported chart type. Use one of: bar, line, scatter, pie, area"}, nil
	}

	data, ok := args["data"].(map[string]any)
	if !ok {
		data = map[string]any{}
	}

	return Result{
		"type":      chartType,
		"title":     optionalStringArg(args, "title"),
		"data":      data,
		"generated": true,
	}, nil
}

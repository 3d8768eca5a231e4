package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaVersion selects how a warnwetter payload is interpreted.
type SchemaVersion string

const (
	// Legacy payloads carry final units and no hourly series.
	Legacy SchemaVersion = "legacy"
	// Current payloads carry tenths of units and an optional hourly series.
	Current SchemaVersion = "current"
	// Auto picks Current when the payload has the top-level "forecast"
	// container and Legacy otherwise.
	Auto SchemaVersion = "auto"
)

func ParseSchemaVersion(s string) (SchemaVersion, error) {
	switch v := SchemaVersion(strings.ToLower(strings.TrimSpace(s))); v {
	case Legacy, Current, Auto:
		return v, nil
	case "":
		return Current, nil
	default:
		return "", fmt.Errorf("unknown forecast schema version %q", s)
	}
}

// detect resolves Auto using the presence of the hourly container only.
func detect(body []byte) (SchemaVersion, error) {
	var probe struct {
		Forecast json.RawMessage `json:"forecast"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", err
	}

	if len(probe.Forecast) == 0 || bytes.Equal(probe.Forecast, []byte("null")) {
		return Legacy, nil
	}
	return Current, nil
}

package blob

import (
	"context"
	"encoding/base64"
)

// DataURL publishes a bundle as a self-contained data: URL.
type DataURL struct{}

// Publish returns data encoded as a base64 data URL.
func (DataURL) Publish(_ context.Context, _ string, data []byte) (string, error) {
	return "data:text/javascript;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data), nil
}

var _ Publisher = DataURL{}

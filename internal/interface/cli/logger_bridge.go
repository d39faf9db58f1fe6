package cli

import (
	"io"

	"github.com/YoshitsuguKoike/taskcore/internal/app"
)

// InitializeLoggers sets up the app layer logger used by every package
func InitializeLoggers(level string, w io.Writer) {
	app.SetLogger(app.NewZapLogger(level, w))
}

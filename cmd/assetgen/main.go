// Command assetgen draws the cursor and icon assets of the application.
//
//	assetgen [all]          every set
//	assetgen icons          badge icons and the scalable icon
//	assetgen cursors        default cursors
//	assetgen custom-cursors alternative cursor theme
//	assetgen verify FILE    check an SVG icon, optionally rendering a preview
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/openyolo/assetgen/internal/apperr"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(afero.NewOsFs(), os.Stderr).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range apperr.Hints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(apperr.ExitCode(err))
	}
}

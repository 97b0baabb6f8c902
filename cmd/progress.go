package cmd

import (
	"fmt"
	"os"

	"tour-admin/core/reconcile"
)

// progressPrinter reports progress on one terminal line.
func progressPrinter(prefix string) reconcile.ProgressFunc {
	return func(current, total int, label string) {
		if total > 0 {
			fmt.Fprintf(os.Stderr, "\r\033[K%s %d/%d %s", prefix, current, total, label)
		} else {
			fmt.Fprintf(os.Stderr, "\r\033[K%s %d %s", prefix, current, label)
		}
		if total > 0 && current >= total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

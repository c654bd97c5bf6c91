package commands

import (
	"github.com/pterm/pterm"

	"github.com/nextapp/nextappd/version"
)

// printStartupBanner prints a short startup summary once the listener is
// bound.
func printStartupBanner(listenAddr, dbPath string) {
	info := version.Get()

	pterm.Println(pterm.LightCyan("nextappd") + " " + pterm.Gray(info.Version+" ("+info.Short()+")"))
	pterm.Printf("  %s %s\n", pterm.Gray("address:"), pterm.White(listenAddr))
	pterm.Printf("  %s %s\n", pterm.Gray("database:"), pterm.White(dbPath))
	pterm.Info.Println("Press Ctrl+C to stop (press twice to force)")
}

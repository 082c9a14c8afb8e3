package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/SaiNageswarS/go-mini-boot/server"
	"github.com/fatih/color"
)

var (
	methodColor = color.New(color.FgGreen, color.Bold)
	headerColor = color.New(color.FgCyan)
)

func PrintRoutes(w io.Writer, rt *server.Runtime) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "METHOD\tPATTERN\tCONTROLLER\tOPERATION")
	for _, r := range rt.Router.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", methodColor.Sprint(r.Method), r.Pattern, r.Controller, r.Operation)
	}
	tw.Flush()
}

func PrintComponents(w io.Writer, rt *server.Runtime) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "TYPE\tSTEREOTYPES\tSCOPE\tNAMESPACE")
	for _, d := range rt.Scan.All {
		scope := "-"
		switch {
		case d.Singleton():
			scope = "singleton"
		case d.Injectable():
			scope = "prototype"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name(), d.Stereotypes, scope, d.Namespace)
	}
	tw.Flush()

	bindings := rt.Registry.Bindings()
	if len(bindings) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headerColor.Fprintln(tw, "CAPABILITY\tQUALIFIER\tIMPLEMENTATION")
	for _, b := range bindings {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Capability, b.Qualifier, b.Implementation)
	}
	tw.Flush()
}

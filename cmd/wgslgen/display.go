package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

var (
	successPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix:       pterm.Prefix{Style: pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack), Text: "Done"},
	}
	warningPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgYellow),
		Prefix:       pterm.Prefix{Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack), Text: "Warn"},
	}
	errorPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgRed),
		Prefix:       pterm.Prefix{Style: pterm.NewStyle(pterm.BgRed, pterm.FgWhite), Text: "Fail"},
	}
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successPrinter.Sprint(fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningPrinter.Sprint(fmt.Sprintf(format, args...)))
}

func printError(w io.Writer, subject string, err error) {
	fmt.Fprintln(w, errorPrinter.Sprint(subject+": "+err.Error()))
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"photosort/internal/organize"
)

const (
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

func renderSummary(w io.Writer, summary organize.Summary) {
	rows := [][2]string{
		{"Placed", strconv.Itoa(summary.Placed)},
		{"Duplicates skipped", strconv.Itoa(summary.Duplicates)},
		{"No date found", strconv.Itoa(summary.NoDate)},
		{"Ignored extension", strconv.Itoa(summary.IgnoredExtensions)},
		{"Failed", strconv.Itoa(summary.Failed)},
		{"Total", strconv.Itoa(summary.Total())},
	}
	fmt.Fprintln(w, renderCountTable("Outcome", "Files", rows))

	if len(summary.Failures) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, failure := range summary.Failures {
		line := fmt.Sprintf("failed: %s: %s", failure.Source, failure.Reason)
		if shouldColorize(w) {
			line = ansiRed + line + ansiReset
		}
		fmt.Fprintln(w, line)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

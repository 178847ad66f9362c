package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func newTable(out io.Writer, headers ...string) *tabwriter.Writer {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, strings.Join(headers, "\t"))
	return writer
}

func row(writer io.Writer, cells ...string) {
	fmt.Fprintln(writer, strings.Join(cells, "\t"))
}

package ql

import (
	"fmt"
	"io"
	"text/tabwriter"
)

type MediaCmd struct {
	Model string `help:"Only list media the printer model can load" placeholder:"QL-800"`
}

func (c *MediaCmd) Run(out io.Writer) error {
	var model *Model
	if c.Model != "" {
		m, err := LookupModel(c.Model)
		if err != nil {
			return err
		}
		model = &m
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tSIZE (mm)\tPRINTABLE (dots)")
	for _, m := range media {
		if model != nil && !model.Supports(m) {
			continue
		}
		size := fmt.Sprintf("%d", m.WidthMM)
		printable := fmt.Sprintf("%d", m.PrintableWidth)
		if m.Kind != Continuous {
			size = fmt.Sprintf("%dx%d", m.WidthMM, m.LengthMM)
			printable = fmt.Sprintf("%dx%d", m.PrintableWidth, m.PrintableLength)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Kind, size, printable)
	}
	return tw.Flush()
}

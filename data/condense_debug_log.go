// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
)

// This is an internal script used to condense the hub's debug log into
// averages that are small enough to plot.

var header = []string{"timestamp", "clients", "chunks", "visible", "pending", "ms"}

func main() {
	var (
		in    string
		out   string
		group int
	)

	flag.StringVar(&in, "in", "debug.csv", "debug log written by the server")
	flag.StringVar(&out, "out", "debug-condensed.csv", "condensed output")
	flag.IntVar(&group, "group", 60, "records to average into one")
	flag.Parse()

	f, err := os.Open(in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	o, err := os.Create(out)
	if err != nil {
		log.Fatal(err)
	}
	defer o.Close()

	if err = condense(f, o, group); err != nil {
		log.Fatal(err)
	}
}

// condense averages every group records of r, keeping the first timestamp.
func condense(r io.Reader, w io.Writer, group int) error {
	if group < 1 {
		return errors.New("group must be positive")
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	sums := make([]float64, len(header)-1)
	var timestamp string
	n := 0

	flush := func() error {
		fields := make([]string, 0, len(header))
		fields = append(fields, timestamp)
		for i := range sums {
			fields = append(fields, fmt.Sprint(float32(sums[i]/float64(n))))
			sums[i] = 0
		}
		n = 0
		return cw.Write(fields)
	}

	for {
		record, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		if n == 0 {
			timestamp = record[0]
		}
		for i := range sums {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return err
			}
			sums[i] += v
		}

		if n++; n == group {
			if err = flush(); err != nil {
				return err
			}
		}
	}

	// Partial group
	if n > 0 {
		if err := flush(); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

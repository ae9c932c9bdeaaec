// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCondense(t *testing.T) {
	const in = "1000,1,10,5,2,1.50\n" +
		"2000,3,30,15,0,2.50\n" +
		"3000,2,20,10,1,0.00\n"

	var out bytes.Buffer
	if err := condense(strings.NewReader(in), &out, 2); err != nil {
		t.Fatal(err)
	}

	const expected = "timestamp,clients,chunks,visible,pending,ms\n" +
		"1000,2,20,10,1,2\n" +
		"3000,2,20,10,1,0\n"
	if out.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, out.String())
	}
}

func TestCondenseErrors(t *testing.T) {
	var out bytes.Buffer
	if err := condense(strings.NewReader(""), &out, 0); err == nil {
		t.Error("expected error for zero group")
	}
	if err := condense(strings.NewReader("1,2\n"), &out, 1); err == nil {
		t.Error("expected error for short record")
	}
	if err := condense(strings.NewReader("1,a,2,3,4,5\n"), &out, 1); err == nil {
		t.Error("expected error for non number")
	}
}

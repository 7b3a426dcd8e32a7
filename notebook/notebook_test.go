package notebook

import (
	"errors"
	"testing"
)

func TestParseBasicNotebook(t *testing.T) {
	data := []byte(`{
		"nbformat": 4,
		"nbformat_minor": 5,
		"cells": [
			{"cell_type": "markdown", "source": ["# Hi"]},
			{"cell_type": "code", "source": ["print(1)"], "outputs": [
				{"output_type": "stream", "name": "stdout", "text": ["1\n"]}
			]},
			{"cell_type": "raw", "source": "raw text"}
		]
	}`)

	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nb.Cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(nb.Cells))
	}

	if nb.Cells[0].Kind != CellMarkdown || nb.Cells[0].Source != "# Hi" {
		t.Errorf("cell 0: got kind %v source %q", nb.Cells[0].Kind, nb.Cells[0].Source)
	}
	if len(nb.Cells[0].Outputs) != 0 {
		t.Errorf("markdown cell should have no outputs, got %d", len(nb.Cells[0].Outputs))
	}

	code := nb.Cells[1]
	if code.Kind != CellCode || code.Source != "print(1)" {
		t.Errorf("cell 1: got kind %v source %q", code.Kind, code.Source)
	}
	if len(code.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(code.Outputs))
	}
	out := code.Outputs[0]
	if out.Kind != OutputStream || out.Stream != "stdout" {
		t.Errorf("output: got kind %v stream %q", out.Kind, out.Stream)
	}
	if len(out.Entries) != 1 || string(out.Entries[0].Data) != "1\n" {
		t.Errorf("output entries: got %+v", out.Entries)
	}

	if nb.Cells[2].Kind != CellRaw || nb.Cells[2].Source != "raw text" {
		t.Errorf("cell 2: got kind %v source %q", nb.Cells[2].Kind, nb.Cells[2].Source)
	}
}

func TestParseSourceLineJoin(t *testing.T) {
	// nbformat source lines carry their own newlines; join must not
	// insert separators.
	data := []byte(`{
		"nbformat": 4,
		"cells": [{"cell_type": "code", "source": ["a = 1\n", "b = 2\n", "a + b"]}]
	}`)
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := "a = 1\nb = 2\na + b"
	if nb.Cells[0].Source != want {
		t.Errorf("source = %q, want %q", nb.Cells[0].Source, want)
	}
}

func TestParseMimeBundleOrderAndBase64(t *testing.T) {
	// "UE5HREFUQQ==" is base64 for "PNGDATA".
	data := []byte(`{
		"nbformat": 4,
		"cells": [{"cell_type": "code", "source": [], "outputs": [
			{"output_type": "display_data", "data": {
				"text/plain": ["<Figure>"],
				"image/png": "UE5HREFUQQ=="
			}}
		]}]
	}`)
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := nb.Cells[0].Outputs[0]
	if out.Kind != OutputDisplayData {
		t.Fatalf("expected display_data, got %v", out.Kind)
	}
	if len(out.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(out.Entries))
	}
	if out.Entries[0].Type != "text/plain" || out.Entries[1].Type != "image/png" {
		t.Errorf("entry order not preserved: %q, %q", out.Entries[0].Type, out.Entries[1].Type)
	}
	if string(out.Entries[1].Data) != "PNGDATA" {
		t.Errorf("png payload not base64-decoded: %q", out.Entries[1].Data)
	}
}

func TestParseExecuteResult(t *testing.T) {
	data := []byte(`{
		"nbformat": 4,
		"cells": [{"cell_type": "code", "source": [], "outputs": [
			{"output_type": "execute_result", "execution_count": 1,
			 "data": {"text/plain": ["42"]}}
		]}]
	}`)
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := nb.Cells[0].Outputs[0]
	if out.Kind != OutputExecuteResult || string(out.Entries[0].Data) != "42" {
		t.Errorf("got kind %v data %q", out.Kind, out.Entries[0].Data)
	}
}

func TestParseErrorOutput(t *testing.T) {
	data := []byte(`{
		"nbformat": 4,
		"cells": [{"cell_type": "code", "source": [], "outputs": [
			{"output_type": "error", "ename": "ZeroDivisionError",
			 "evalue": "division by zero",
			 "traceback": ["Traceback (most recent call last)", "ZeroDivisionError: division by zero"]}
		]}]
	}`)
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	out := nb.Cells[0].Outputs[0]
	if out.Kind != OutputError {
		t.Fatalf("expected error output, got %v", out.Kind)
	}
	want := "Traceback (most recent call last)\nZeroDivisionError: division by zero"
	if string(out.Entries[0].Data) != want {
		t.Errorf("traceback = %q, want %q", out.Entries[0].Data, want)
	}
}

func TestParseSkipsUnknownShapes(t *testing.T) {
	data := []byte(`{
		"nbformat": 4,
		"cells": [{"cell_type": "code", "source": [], "outputs": [
			{"output_type": "hologram", "text": ["?"]},
			{"output_type": "stream", "name": "nonsense", "text": ["?"]},
			{"output_type": "stream", "name": "stderr", "text": ["oops\n"]},
			{"output_type": "display_data", "data": {"image/png": "!!!not-base64!!!"}}
		]}]
	}`)
	nb, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	outputs := nb.Cells[0].Outputs
	if len(outputs) != 2 {
		t.Fatalf("expected 2 surviving outputs, got %d", len(outputs))
	}
	if outputs[0].Stream != "stderr" {
		t.Errorf("expected stderr output first, got %q", outputs[0].Stream)
	}
	// The display_data survives but its undecodable entry is dropped.
	if len(outputs[1].Entries) != 0 {
		t.Errorf("expected malformed base64 entry dropped, got %+v", outputs[1].Entries)
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "not json", data: "not a notebook", want: ErrParse},
		{name: "wrong cells type", data: `{"nbformat": 4, "cells": 5}`, want: ErrParse},
		{name: "missing cell list", data: `{"nbformat": 4}`, want: ErrMissingCells},
		{name: "missing cell_type", data: `{"nbformat": 4, "cells": [{"source": ["x"]}]}`, want: ErrMissingCellType},
		{name: "unknown cell_type", data: `{"nbformat": 4, "cells": [{"cell_type": "mystery"}]}`, want: ErrParse},
		{name: "old format", data: `{"nbformat": 3, "worksheets": []}`, want: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
		})
	}
}

func TestParseEmptyCellList(t *testing.T) {
	nb, err := Parse([]byte(`{"nbformat": 4, "cells": []}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nb.Cells) != 0 {
		t.Errorf("expected no cells, got %d", len(nb.Cells))
	}
}

/*
NAME
  lex_test.go

DESCRIPTION
  lex_test.go provides testing for the lexer in lex.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/ausocean/utils/logging"
)

var jpegTests = []struct {
	name  string
	input []byte
	want  [][]byte
	err   error
}{
	{
		name: "empty",
		err:  io.EOF,
	},
	{
		name:  "null",
		input: []byte{0xff, 0xd8, 0xff, 0xd9},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.EOF,
	},
	{
		name: "full",
		input: []byte{
			0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9,
			0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9,
			0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9},
			{0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9},
			{0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "nested thumbnail",
		input: []byte{
			0xff, 0xd8, 'a', 0xff, 0xd8, 't', 0xff, 0xd9, 'b', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'a', 0xff, 0xd8, 't', 0xff, 0xd9, 'b', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "junk between frames",
		input: []byte{
			'-', '-', 'b', 'o', 'u', 'n', 'd',
			0xff, 0xd8, 'o', 'n', 'e', 0xff, 0xd9,
			'\r', '\n', 0xff,
			0xff, 0xd8, 't', 'w', 'o', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'o', 'n', 'e', 0xff, 0xd9},
			{0xff, 0xd8, 't', 'w', 'o', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "truncated",
		input: []byte{
			0xff, 0xd8, 'o', 'k', 0xff, 0xd9,
			0xff, 0xd8, 'c', 'u', 't',
		},
		want: [][]byte{
			{0xff, 0xd8, 'o', 'k', 0xff, 0xd9},
		},
		err: io.ErrUnexpectedEOF,
	},
	{
		name:  "trailing junk",
		input: []byte{0xff, 0xd8, 0xff, 0xd9, 'x'},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.ErrUnexpectedEOF,
	},
}

func TestLexerNext(t *testing.T) {
	for _, test := range jpegTests {
		lex := NewLexer(bytes.NewReader(test.input), (*logging.TestLogger)(t))
		var got [][]byte
		var err error
		for {
			var b []byte
			b, err = lex.Next()
			if err != nil {
				break
			}
			got = append(got, b)
		}
		if fmt.Sprint(err) != fmt.Sprint(test.err) {
			t.Errorf("unexpected error for %q: got:%v want:%v", test.name, err, test.err)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("unexpected result for %q:\ngot :%#v\nwant:%#v", test.name, got, test.want)
		}
	}
}

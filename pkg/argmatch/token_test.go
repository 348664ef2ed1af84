// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argmatch

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want []Token
	}{
		{
			name: "long option with value",
			argv: []string{"--key=V1=V2"},
			want: []Token{{Kind: LongOption, Text: "--key=V1=V2", Name: "key", Value: "V1=V2", HasValue: true}},
		},
		{
			name: "long option with empty value",
			argv: []string{"--key="},
			want: []Token{{Kind: LongOption, Text: "--key=", Name: "key", HasValue: true}},
		},
		{
			name: "short cluster",
			argv: []string{"-abc"},
			want: []Token{{Kind: ShortCluster, Text: "-abc", Shorts: []rune("abc")}},
		},
		{
			name: "short cluster with value",
			argv: []string{"-abc=x=y"},
			want: []Token{{Kind: ShortCluster, Text: "-abc=x=y", Shorts: []rune("abc"), Value: "x=y", HasValue: true}},
		},
		{
			name: "negative number is a cluster",
			argv: []string{"-5"},
			want: []Token{{Kind: ShortCluster, Text: "-5", Shorts: []rune("5")}},
		},
		{
			name: "dash and equals only",
			argv: []string{"-", "-=x", "a=b"},
			want: []Token{
				{Kind: Positional, Text: "-"},
				{Kind: Positional, Text: "-=x", Index: 1},
				{Kind: Positional, Text: "a=b", Index: 2},
			},
		},
		{
			name: "terminator",
			argv: []string{"-v", "--", "--x", "--"},
			want: []Token{
				{Kind: ShortCluster, Text: "-v", Shorts: []rune("v")},
				{Kind: Terminator, Text: "--", Index: 1},
				{Kind: Positional, Text: "--x", Index: 2},
				{Kind: Positional, Text: "--", Index: 3},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.argv)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.argv, diff)
			}
		})
	}
}

func TestTokenColumns(t *testing.T) {
	tok := Classify([]string{"-aéz=v"})[0]
	if got := tok.shortColumn(2); got != 4 {
		t.Errorf("shortColumn(2) = %d, want 4", got)
	}
	if got := tok.valueColumn(); got != 6 {
		t.Errorf("valueColumn() = %d, want 6", got)
	}
}

// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// subcmd shows struct-derived subcommands.
//
//	subcmd --dir /tmp add --tag work buy milk
//	subcmd list --limit 5
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yeetrun/argmatch/pkg/argmatch"
	"github.com/yeetrun/argmatch/pkg/derive"
	"tailscale.com/util/must"
)

type addFlags struct {
	Tags  []string `flag:"tag" short:"t" nargs:"+" help:"Tags to attach"`
	Words []string `pos:"0+" flag:"text" help:"Note text"`
}

type listFlags struct {
	Limit int           `flag:"limit" short:"n" default:"10" help:"Show at most this many notes"`
	Since time.Duration `flag:"since" help:"Only notes newer than this"`
}

type flags struct {
	Dir     string     `flag:"dir" short:"d" default:"." placeholder:"PATH" help:"Notes directory"`
	Verbose bool       `flag:"verbose" short:"v" help:"Explain what is happening"`
	Add     *addFlags  `cmd:"add" help:"Add a note"`
	List    *listFlags `cmd:"list" help:"List notes"`
}

func main() {
	var f flags
	cmd := must.Get(derive.New("subcmd", &f))
	must.Do(cmd.Registry.Finalize())
	res := argmatch.New(cmd.Registry).ParseOrExit(os.Args[1:])
	cmd.Settle(res.Path)
	if f.Verbose {
		fmt.Fprintf(os.Stderr, "command %q in %s\n", res.Command(), f.Dir)
	}
	switch {
	case f.Add != nil:
		fmt.Printf("add %q tags=%v\n", strings.Join(f.Add.Words, " "), f.Add.Tags)
	case f.List != nil:
		fmt.Printf("list limit=%d since=%v\n", f.List.Limit, f.List.Since)
	}
}

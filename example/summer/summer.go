// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// summer adds up its arguments, or prints the largest with --max.
//
//	summer 1 2 3        # 6
//	summer --max 1 5 3  # 5
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/yeetrun/argmatch/pkg/argmatch"
	"tailscale.com/util/must"
)

func main() {
	var (
		nums    []int
		largest bool
	)
	reg := argmatch.NewRegistry("summer", argmatch.WithAbout("Combine some integers."))
	must.Do(reg.Register(
		argmatch.Arg("nums", argmatch.Collection(&nums, argmatch.AtLeastOne(), argmatch.Int)).
			Help("Integers to combine"),
	))
	must.Do(reg.Register(
		argmatch.Opt("max", 'm', argmatch.Switch(&largest, true)).
			Help("Print the largest instead of the sum"),
	))
	must.Do(reg.Finalize())

	argmatch.New(reg).ParseOrExit(os.Args[1:])

	if largest {
		fmt.Println(slices.Max(nums))
		return
	}
	sum := 0
	for _, n := range nums {
		sum += n
	}
	fmt.Println(sum)
}

// File: cmd/hioload-bench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// hioload-bench times the matrix-vector and integration kernels serially,
// with one goroutine per block, and on a ThreadPool.

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hioload-bench:", err)
		os.Exit(1)
	}
}

// Package kernels
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Numerical benchmark kernels: dense matrix-vector product and midpoint-rule
// integration. Each kernel comes in three flavours sharing one block
// decomposition (partition.Blocks):
//
//   - serial reference;
//   - data-parallel fork/join over goroutines, one per block;
//   - ThreadPool submission, one task per block, joined through Futures.
//
// Output buffers are handed to tasks as disjoint partition.Split windows, so
// concurrent writes never overlap.
package kernels

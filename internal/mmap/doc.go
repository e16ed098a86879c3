// Package mmap provides read-write, file-backed memory mappings sized up
// front. It backs the memory-mapped execution strategy of the embedding
// engine, where two fixed-size matrix buffers ping-pong between iterations.
package mmap

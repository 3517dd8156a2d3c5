// Package gpudata defines the flat, index-addressed data model shared by
// all pipeline kernels.
//
// Every structure here is designed the way it would be laid out in a GPU
// storage buffer: fixed-size records addressed by integer index, linked
// lists expressed as index chains rather than pointers, and shared slots
// mutated only through atomic operations. The CPU kernels in internal/
// operate on these records exactly like their compute-shader counterparts
// would, which keeps the reference implementation honest about ordering
// and idempotence.
//
// Records are owned by a single pipeline run. The arenas (fills,
// microlines, mask tiles) are reset between runs by the renderer; indices
// stored in one run are meaningless in the next.
package gpudata

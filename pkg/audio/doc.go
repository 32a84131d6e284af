// ABOUTME: Package documentation for audio types
// ABOUTME: Documents buffer layout and sample conventions
// Package audio provides the shared types for test-asset generation:
// planar float64 buffers, PCM format descriptions, and the little-endian
// 16/24-bit sample packing primitives used by the encoders.
package audio

// Package abi provides internal utilities for Canonical ABI string transport.
//
// It holds the size limits the transcoder enforces on guest-provided
// lengths, overflow-checked u32 arithmetic for pointer math, and the
// little-endian helpers used for ptr/len pairs in list<string> layouts.
//
// This package is internal to the transcoder.
package abi

// Package wasmutf16 transcodes strings between UTF-8 and UTF-16 for
// WebAssembly hosts.
//
// Component Model strings cross a component boundary in the encoding the
// callee declared (utf8 or utf16). When the two sides disagree the host must
// transcode them through guest linear memory, validating as it goes. This
// module provides that path and the strict codec underneath it.
//
// # Architecture Overview
//
//	wasmutf16/           Root package with Memory and Allocator interfaces
//	├── codec/           UTF-8 ⇄ UTF-16 decoder, encoder and size estimator
//	├── transcoder/      Lift/lower/transcode strings in guest memory
//	├── memory/          wazero api.Memory and cabi_realloc adapters
//	├── errors/          Structured error types for debugging
//	└── cmd/utf16/       Command line tool and interactive inspector
//
// # Quick Start
//
// Convert in-process buffers:
//
//	units, err := codec.Decode(utf8Bytes)
//	if err != nil {
//	    log.Fatal(err) // [decode] invalid_utf8: byte 0xc0 at index 3
//	}
//	out, err := codec.Encode(units)
//
// Encode into a fixed buffer and resume after growing it:
//
//	res := codec.EncodeInto(units, buf)
//	for res.Err == codec.OutbufEnd {
//	    buf = append(buf, make([]byte, len(buf))...)
//	    res = codec.EncodeIntoRange(units, buf, res.Chars, len(units), res.Bytes, len(buf))
//	}
//
// Transcode a guest string:
//
//	mem := memory.WrapMemory(mod.ExportedMemory("memory"))
//	alloc := memory.WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
//	tc := transcoder.New()
//	ptr, n, err := tc.Transcode(mem, alloc, transcoder.EncodingUTF16, srcPtr, srcLen, transcoder.EncodingUTF8)
//
// # Thread Safety
//
// The codec is pure and safe for concurrent use. A Transcoder is safe for
// concurrent use as long as the memories and allocators passed to it are not
// shared between goroutines.
package wasmutf16

// Package sksl rehydrates dehydrated SkSL modules: compact binary artifacts
// that hold a pre-parsed shader program or builtin library, decoded back into
// a typed IR with fully linked symbol tables.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	sksl/                Root package (documentation only)
//	├── ir/              Types, symbols, scopes, statements, expressions, programs
//	├── rehydrate/       Artifact decoder: header, string blob, scopes, element tree
//	├── dehydrate/       Canonical encoder producing artifacts rehydrate reads
//	├── loader/          Memory-mapped file loading, snappy artifacts, program cache
//	├── config/          TOML configuration: logging, capabilities, cache, modules
//	├── errors/          Structured error types for debugging
//	├── internal/binary/ Little-endian reader and writer
//	└── cmd/rehydrate/   CLI: dump, verify and browse artifacts
//
// # Quick Start
//
// Decode a program artifact:
//
//	ctx := ir.NewContext()
//	prog, err := rehydrate.Decode(ctx, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(ir.Dump(prog))
//
// Load artifacts from disk with caching:
//
//	l, err := loader.New(ctx, loader.Options{CacheSize: 64})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	prog, err := l.LoadFile("shader.sksl.bin.sz")
//
// Decode a builtin library module into a scope nested in a program kind's
// root:
//
//	mod, err := rehydrate.NewDecoder(ctx, rehydrate.Options{}).
//	    DecodeModule(data, ctx.Root(ir.ProgramKindRuntimeShader))
//
// # Artifact Format
//
// An artifact starts with a u16 format version and a u16-length string blob.
// The body is a tagged command stream; each tag selects a symbol, scope,
// element, statement or expression form. Symbols carry u16 ids assigned in
// stream order and are referenced by id afterwards; builtins are referenced
// by name through the 0xFFFF sentinel. All multi-byte values are
// little-endian.
//
// # Error Handling
//
// Every failure is an *errors.Error carrying the phase, kind and byte offset
// at which decoding stopped. Decoding never returns a partial program:
//
//	prog, err := rehydrate.Decode(ctx, data)
//	if errors.Is(err, errors.UnresolvedID(0, 0)) {
//	    // a reference to an id that was never defined
//	}
//
// # Thread Safety
//
// An ir.Context is read-only once built and may be shared. Decoders,
// encoders and loaders hold no per-call state; every call runs an
// independent session, so they may be used from several goroutines.
package sksl

// Package hygiene provides lexical contexts ("marks") used to keep identifiers
// introduced by different scopes or by different compiler passes apart.
//
// An identifier in the syntax tree is the pair (spelling, Ctxt). Two
// identifiers denote the same binding only when both components are equal,
// so a pass that needs a name that can never capture, or be captured by, user
// code mints a fresh context and attaches it to the new identifier.
//
// Contexts form a tree under Root. The resolver hangs every lexical scope of a
// module below a per-module context; private identifiers minted by rewrite
// passes hang directly below Root. The renamer uses that shape to decide
// which spellings may stay and which must be made unique before printing.
//
// An Allocator is safe for concurrent use, so one allocator may be shared by
// several module compilations running in parallel.
package hygiene

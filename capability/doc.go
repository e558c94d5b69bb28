// Package capability models the compile-time feature configuration of an
// embeddable TCP/IP stack, as an immutable [Set] of named flags.
//
// Each [Flag] is either a boolean toggle, or a small bounded integer, with a
// fixed default. A set is built once, via [Default], [New], [Load], or
// [Parse], validated against the stack's dependency rules, and never
// modified. It may be rendered as an lwipopts.h header via
// [Set.WriteHeader], for builds that compile the stack from C.
//
// Capability files are flat maps of [Flag.Key] to value, in YAML or TOML:
//
//	tcp: true
//	ipv6_num_addresses: 2
//	debug: false
package capability

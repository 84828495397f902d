// Package project provides content-addressing primitives shared by the
// compiler's incremental cache and the package toolchain's digest checks.
package project

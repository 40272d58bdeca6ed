// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package io moves bytes between the operator and the SSBC: machine code
// listings loaded into memory, and binary values read from or written to
// the ports.
package io

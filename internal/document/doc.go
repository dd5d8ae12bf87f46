// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package document reads the two sides of a diff. A document argument is
// LOCATION[::FORMAT] where LOCATION is a file, "-" for stdin, or an s3:// URL
// and FORMAT is json, yaml, hcl (tfvars) or msgpack. Without a format the
// file extension decides, and failing that the first bytes of the body.
//
// OpenTofu encrypted state is decrypted transparently. The passphrase comes
// from WithPassphrase, DATADIFF_PASSPHRASE, TF_VAR_passphrase or a terminal
// prompt, in that order.
package document

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

/*
Package filterrules implements rsync-style include/exclude filter rules.

A ruleset is an ordered list of lines such as

	- *.o
	+ /src/***
	exclude build/

The first include or exclude rule whose pattern matches a path decides it;
a path no rule matches is included. Lines that are not rules are kept
verbatim so a ruleset renders back to the text it was parsed from.

Basic flow:
  - compile one pattern (`Compile`) and match paths (`Pattern.Match`)
  - parse rules from text (`Parse`, `ParseReader`) or files (`LoadFile`)
  - optionally build extension rules (`ExtensionRules`) and `Merge` sets
  - ask for a verdict (`Ruleset.Apply` / `Ruleset.Decide`)
  - write edited rules back (`Ruleset.Render`, `SaveFile`)

Paths are slash separated and relative to the transfer root, with no
leading or trailing "/". Use `NormalizePath` for raw input.

To swap rules while other goroutines evaluate paths, publish rulesets
through `Current`. For rsync dir-merge style per-directory filter files,
use `Provider`:
  - create provider with root directory and filter file name
  - evaluate paths relative to that root
  - provider caches compiled directory rulesets
  - for one-directory batches use `DecideInDir`
  - optional symlink escape hardening: `EnableSymlinkEscapeCheck`
*/
package filterrules

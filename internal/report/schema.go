// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/filterrules

package report

// Schema is the JSON Schema (Draft 2020-12) for scan and check JSON output.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/woozymasta/filterrules/report.schema.json",
  "title": "filterrules report",
  "type": "object",
  "required": ["version"],
  "oneOf": [
    { "required": ["root", "entries", "stats"] },
    { "required": ["results"] }
  ],
  "properties": {
    "version": { "type": "string" },
    "root": { "type": "string" },
    "entries": {
      "type": "array",
      "items": { "$ref": "#/$defs/Entry" }
    },
    "results": {
      "type": "array",
      "items": { "$ref": "#/$defs/Entry" }
    },
    "stats": { "$ref": "#/$defs/Stats" }
  },
  "$defs": {
    "Entry": {
      "type": "object",
      "required": ["path", "rule_index", "is_dir", "included", "matched"],
      "additionalProperties": false,
      "properties": {
        "path": { "type": "string", "minLength": 1 },
        "rule": { "type": "string" },
        "source": { "type": "string" },
        "error": { "type": "string" },
        "rule_index": { "type": "integer", "minimum": -1 },
        "is_dir": { "type": "boolean" },
        "included": { "type": "boolean" },
        "matched": { "type": "boolean" }
      }
    },
    "Stats": {
      "type": "object",
      "required": ["dirs", "files", "included", "excluded", "errors"],
      "properties": {
        "dirs": { "type": "integer", "minimum": 0 },
        "files": { "type": "integer", "minimum": 0 },
        "included": { "type": "integer", "minimum": 0 },
        "excluded": { "type": "integer", "minimum": 0 },
        "errors": { "type": "integer", "minimum": 0 }
      }
    }
  }
}`

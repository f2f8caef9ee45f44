package report

// Schema is the JSON Schema (Draft 2020-12) for the kempt metrics
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/kempt/metrics-report.schema.json",
  "title": "Kempt Metrics Report",
  "description": "Output schema for the JSON report export",
  "type": "object",
  "required": [
    "version", "duration_seconds", "language", "lines_before", "lines_after",
    "chars", "dependencies", "unused", "report", "diff"
  ],
  "properties": {
    "version": {
      "type": "string",
      "description": "kempt version that produced the report"
    },
    "duration_seconds": {
      "type": "number",
      "minimum": 0,
      "description": "Time taken to format the code"
    },
    "language": {
      "enum": ["python", "go"],
      "description": "Language the snippet was analyzed as"
    },
    "lines_before": { "type": "integer", "minimum": 0 },
    "lines_after": { "type": "integer", "minimum": 0 },
    "chars": {
      "type": "integer",
      "minimum": 0,
      "description": "Character count of the original code"
    },
    "dependencies": {
      "type": "array",
      "items": { "type": "string" },
      "description": "Imported module names or package paths, sorted"
    },
    "complexity": { "$ref": "#/$defs/Complexity" },
    "unused": { "$ref": "#/$defs/Unused" },
    "report": { "$ref": "#/$defs/DetailedReport" },
    "diff": { "$ref": "#/$defs/Diff" },
    "errors": {
      "type": "object",
      "propertyNames": { "enum": ["dependencies", "complexity", "symbols"] },
      "additionalProperties": { "type": "string" },
      "description": "Metrics that could not be computed, by name"
    }
  },
  "$defs": {
    "Complexity": {
      "type": "object",
      "required": ["max", "average", "blocks"],
      "properties": {
        "max": { "type": "integer", "minimum": 1 },
        "average": { "type": "number", "minimum": 1 },
        "blocks": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/Block" }
        }
      }
    },
    "Block": {
      "type": "object",
      "required": ["name", "line", "complexity"],
      "properties": {
        "name": {
          "type": "string",
          "description": "Function or class name; methods and nested functions are qualified, e.g. Shape.area or (Recv).Name in Go"
        },
        "line": { "type": "integer", "minimum": 1 },
        "complexity": { "type": "integer", "minimum": 1 }
      }
    },
    "Unused": {
      "type": "object",
      "required": ["functions", "classes", "variables", "constants"],
      "properties": {
        "functions": { "$ref": "#/$defs/Names" },
        "classes": { "$ref": "#/$defs/Names" },
        "variables": { "$ref": "#/$defs/Names" },
        "constants": { "$ref": "#/$defs/Names" }
      }
    },
    "Names": {
      "oneOf": [
        { "type": "array", "items": { "type": "string" } },
        { "type": "null" }
      ],
      "description": "Sorted names; null when declarations could not be scanned"
    },
    "DetailedReport": {
      "type": "object",
      "required": ["classes", "functions", "variables"],
      "properties": {
        "classes": { "type": "integer", "minimum": 0 },
        "functions": { "type": "integer", "minimum": 0 },
        "variables": { "type": "integer", "minimum": 0 }
      }
    },
    "Diff": {
      "type": "object",
      "required": ["added", "removed", "changed"],
      "properties": {
        "added": { "type": "integer", "minimum": 0 },
        "removed": { "type": "integer", "minimum": 0 },
        "changed": { "type": "integer", "minimum": 0 }
      }
    }
  }
}`

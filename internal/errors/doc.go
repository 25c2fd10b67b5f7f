// Package errors provides structured, actionable error messages for the mte
// command line.
//
// # Error Categories
//
//   - engine: binding and context resolution failures raised while
//     rendering or updating a view
//   - config: mte.json loading and validation
//   - scenario: YAML scenario files (template descriptors, data, steps)
//   - cli: command usage and server failures
//
// # Error Codes
//
// Each error has a unique code (e.g., "E001") that maps to a short message
// and a detailed explanation. Engine errors carry their code through a
// Code() method, so FromError classifies them without importing the
// engine.
//
// # Usage
//
//	err := errors.New("E202").
//	    WithLocation("demo.yaml", 7, 5).
//	    WithSuggestion("Steps need an op: set, add, remove, put, clear or replace")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E202: Invalid scenario step
//	//
//	//   demo.yaml:7:5
//	//
//	//      5 │ steps:
//	//      6 │   - op: set
//	//   →  7 │   - op: frob
//	//        │     ^
//	//
//	//   Hint: Steps need an op: set, add, remove, put, clear or replace
package errors

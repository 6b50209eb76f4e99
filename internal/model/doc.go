// Package model loads benchmark models from YAML or HCL files.
//
// A [Model] has a name, signatures, and an ordered list of commands. Each
// [Command] carries the CNF [Problem] a solver decides. Loaded models are
// read-only and accessors return copies.
//
// # Example
//
//	m, err := model.Load("testdata/mutex.yaml")
//	if err != nil {
//		return err
//	}
//	last := m.Commands()[m.NumCommands()-1]
//
// Load errors are always a [*ParseError] with the file path and, when known,
// the line of the offending command.
package model

// Package pipeline wires the normalization stages and the report renderer
// into one synchronous run: validate paths, read the source worksheet,
// locate and shrink to the header, forward-fill gaps, derive computed
// fields, prepare every selected report and write the cleaned sheet plus
// one pivot sheet per report.
//
// Run is the single entry point; both the terminal UI and the headless
// command build Params and call it.
package pipeline

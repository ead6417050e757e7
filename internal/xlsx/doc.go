// Package xlsx reads and writes the spreadsheet workbooks the pipeline
// consumes and produces, including the rendered pivot report sheets.
package xlsx

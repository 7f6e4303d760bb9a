// Package scaffold copies the embedded plugin template to a destination
// directory and writes generated files into the copy.
package scaffold
